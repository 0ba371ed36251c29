// Package fallback provides canned assistant replies for deployments
// with no chat-completion credential configured.
package fallback

import (
	"math/rand"
	"strings"
)

// keywordGroup maps a set of trigger substrings to one canned reply.
// Groups are tested in order; the first match wins.
type keywordGroup struct {
	keywords []string
	reply    string
}

var keywordGroups = []keywordGroup{
	{
		keywords: []string{"bark", "barking"},
		reply: "Excessive barking usually has a trigger: boredom, alerting to sounds, separation anxiety, or a demand for attention. " +
			"Watch what happens right before the barking starts. If your dog barks at passersby, managing their view of the window often helps; " +
			"if it happens when you leave, it may be separation-related and worth building up alone-time gradually. " +
			"Rewarding quiet moments works far better than scolding the noise.",
	},
	{
		keywords: []string{"food", "feed", "feeding", "eat", "eating", "appetite"},
		reply: "A healthy appetite is one of the clearest signals of wellbeing. Sudden changes in how much or how eagerly your pet eats are worth noting. " +
			"Stick to consistent meal times, measure portions for their size and activity level, and introduce any new food gradually over about a week. " +
			"If your pet refuses food for more than a day or two, a vet visit is the safe call.",
	},
	{
		keywords: []string{"train", "training", "obedience", "command", "sit", "stay"},
		reply: "Positive reinforcement is the foundation of good training: reward the behavior you want within a second or two of it happening, " +
			"and keep sessions short — five to ten minutes, a few times a day. Consistency matters more than intensity; everyone in the household " +
			"should use the same cues. Punishment tends to teach fear rather than the behavior you're after.",
	},
	{
		keywords: []string{"meow", "meowing", "purr", "purring", "whine", "whining", "howl", "vocal"},
		reply: "Vocalizations are your pet's most direct communication channel. Purring usually signals contentment, though cats may also purr to self-soothe " +
			"when stressed. Persistent meowing or whining often means a need isn't being met — hunger, attention, or discomfort. " +
			"Note when the vocalizing happens and what makes it stop; the pattern usually points at the cause.",
	},
	{
		keywords: []string{"sleep", "sleeping", "nap", "rest", "tired"},
		reply: "Pets sleep a lot more than we do — dogs average 12 to 14 hours a day and cats up to 16, so long naps are rarely a concern on their own. " +
			"What matters is change: a pet that suddenly sleeps much more or can't settle at all may be telling you something. " +
			"A quiet, consistent sleeping spot away from household traffic helps them rest well.",
	},
}

const clarifyingReply = "I'd be happy to help you understand your pet better! Could you tell me more about what you've observed? " +
	"Different animals have unique ways of communicating their needs and emotions."

// Respond maps the user's text to a canned reply by keyword matching.
// Pure and deterministic: identical input always yields identical output.
func Respond(userText string) string {
	lowered := strings.ToLower(userText)
	for _, group := range keywordGroups {
		for _, keyword := range group.keywords {
			if strings.Contains(lowered, keyword) {
				return group.reply
			}
		}
	}
	return clarifyingReply
}

// imageObservations are illustrative stand-ins for real image analysis
var imageObservations = []string{
	"From the posture in this photo, your pet looks relaxed and comfortable in their environment. " +
		"Soft eyes and loose body language like this usually indicate a pet that feels safe.",
	"Your pet's ears and facial expression here suggest alertness — they were likely focused on something " +
		"interesting just out of frame. This is healthy, engaged behavior.",
	"The body language in this image reads as playful. That loose, energetic stance is an invitation " +
		"to interact — a great time for a game or a short training session.",
	"This looks like a content, well-settled pet. The way they're holding their tail and head suggests " +
		"they trust the person behind the camera.",
	"I can see bright eyes and good coat condition in this photo, which are both positive health indicators. " +
		"Keep an eye on posture changes over time — they often show discomfort before anything else does.",
}

// ObserveImage returns one of a fixed set of canned image observations,
// chosen uniformly at random. Illustrative copy only, so it is unseeded.
func ObserveImage() string {
	return imageObservations[rand.Intn(len(imageObservations))]
}
