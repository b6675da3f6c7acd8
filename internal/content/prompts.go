package content

import "fmt"

const systemPrompt = `You write concise, accurate educational overviews for a general audience.
Answer only with JSON matching the provided schema.`

func topicPrompt(topic string) string {
	return fmt.Sprintf(`Generate a comprehensive educational overview of the topic: %q.
Include a catchy title, a detailed 2-paragraph summary, %d interesting facts,
%d statistical data points (label and a numeric value between 1 and 100),
and %d common questions and answers.`, topic, WantFacts, WantStats, WantQAndA)
}
