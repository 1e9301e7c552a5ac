package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "kudos/pkg/domainerrors"
)

func TestParseUserID(t *testing.T) {
	valid := uuid.New().String()

	got, err := ParseUserID(valid)
	require.NoError(t, err)
	assert.Equal(t, valid, got.String())
	assert.False(t, got.IsNil())

	for name, input := range map[string]string{
		"empty":     "",
		"malformed": "not-a-uuid",
		"nil uuid":  uuid.Nil.String(),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseUserID(input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

func TestParseSubmissionID(t *testing.T) {
	valid := uuid.New().String()

	got, err := ParseSubmissionID(valid)
	require.NoError(t, err)
	assert.Equal(t, valid, got.String())

	_, err = ParseSubmissionID("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestParseRewardDomain(t *testing.T) {
	for _, known := range []RewardDomain{DomainProject, DomainInvoice} {
		got, err := ParseRewardDomain(known.String())
		require.NoError(t, err)
		assert.Equal(t, known, got)
	}

	_, err := ParseRewardDomain("mystery")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
