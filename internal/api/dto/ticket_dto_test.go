package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateTicketRequest_AssigneeAbsentVsNull(t *testing.T) {
	var absent UpdateTicketRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &absent))
	assert.False(t, absent.AssignedToUserID.Set)

	var null UpdateTicketRequest
	require.NoError(t, json.Unmarshal([]byte(`{"assignedToUserId":null}`), &null))
	assert.True(t, null.AssignedToUserID.Set)
	assert.Nil(t, null.AssignedToUserID.Value)

	var set UpdateTicketRequest
	require.NoError(t, json.Unmarshal([]byte(`{"assignedToUserId":"user-2"}`), &set))
	assert.True(t, set.AssignedToUserID.Set)
	require.NotNil(t, set.AssignedToUserID.Value)
	assert.Equal(t, "user-2", *set.AssignedToUserID.Value)
}

func TestOptionalString_RejectsNonString(t *testing.T) {
	var req UpdateTicketRequest
	assert.Error(t, json.Unmarshal([]byte(`{"assignedToUserId":7}`), &req))
}
