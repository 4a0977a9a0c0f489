package worker_test

import (
	"testing"

	"freebies/internal/worker"

	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"nested tags", "<p>Half price <b>now</b>!</p>", "Half price "},
		{"single paragraph", "<p>Grab it</p>", "Grab it"},
		{"no markup", "plain text", ""},
		{"no closing tag", "<p>tail", "tail"},
		{"empty", "", ""},
		{"leading text", "intro <p>body</p>", "body"},
		{"empty segment", "<p><b>x</b></p>", ""},
		{"unicode", "<p>Бесплатно — сейчас</p>", "Бесплатно — сейчас"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, worker.Summarize(tc.in))
		})
	}
}
