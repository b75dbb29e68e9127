package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRecordNumber(t *testing.T) {
	assert.Equal(t, "2026/08/0001", FormatRecordNumber(2026, time.August, 1))
	assert.Equal(t, "2026/01/0042", FormatRecordNumber(2026, time.January, 42))
	assert.Equal(t, "2025/12/1234", FormatRecordNumber(2025, time.December, 1234))
}
