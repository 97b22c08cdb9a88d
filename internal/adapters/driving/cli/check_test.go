package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckCmd_Use(t *testing.T) {
	assert.Equal(t, "check [name]", checkCmd.Use)
}

func TestCheckCmd_RequiresConfiguration(t *testing.T) {
	err := runCheck(checkCmd, nil)

	assert.EqualError(t, err, "check service not configured")
}
