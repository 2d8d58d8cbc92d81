package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_Active(t *testing.T) {
	u := &UserSummary{ID: "1"}

	assert.False(t, Session{}.Active())
	assert.False(t, Session{Token: "t"}.Active())
	assert.False(t, Session{User: u}.Active())
	assert.True(t, Session{Token: "t", User: u, LastActivity: time.Now()}.Active())
}
