package fallback

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestRespondKeywordGroups(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bark question",
			input: "Why does my dog bark a lot?",
			want:  "barking",
		},
		{
			name:  "feeding question",
			input: "How much should I feed my cat?",
			want:  "appetite",
		},
		{
			name:  "training question",
			input: "Any tips for TRAINING a puppy?",
			want:  "reinforcement",
		},
		{
			name:  "vocalization question",
			input: "My cat keeps meowing at night",
			want:  "Vocalizations",
		},
		{
			name:  "sleep question",
			input: "Is it normal that my dog sleeps all day?",
			want:  "sleep",
		},
		{
			name:  "no match gets clarifying prompt",
			input: "Tell me about the weather",
			want:  "I'd be happy to help",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := Respond(tt.input)
			assert.Contains(t, strings.ToLower(reply), strings.ToLower(tt.want))
		})
	}
}

func TestRespondIsDeterministic(t *testing.T) {
	input := "Why does my dog bark a lot?"
	first := Respond(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Respond(input))
	}
}

func TestRespondDeterministicProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("identical input yields identical output", prop.ForAll(
		func(input string) bool {
			return Respond(input) == Respond(input)
		},
		gen.AnyString(),
	))

	properties.Property("output is never empty", prop.ForAll(
		func(input string) bool {
			return Respond(input) != ""
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestRespondIgnoresCase(t *testing.T) {
	assert.Equal(t, Respond("why does my dog BARK?"), Respond("why does my dog bark?"))
}

func TestObserveImage(t *testing.T) {
	// Every draw comes from the fixed observation set
	for i := 0; i < 50; i++ {
		assert.Contains(t, imageObservations, ObserveImage())
	}
}
