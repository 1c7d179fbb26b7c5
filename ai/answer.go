package ai

import (
	"context"
	"fmt"
)

// AnswerQuestion answers a reader's free-text question about an article.
func (c *Client) AnswerQuestion(ctx context.Context, title, body, question string) (string, error) {
	return c.complete(ctx, fmt.Sprintf(`You are an English learning assistant. A student reading the article below has a question.

Article title: %s
Article text: %s

Student's question: %s

Answer helpfully so the student understands the article better. Keep it short and clear.
`, title, body, question))
}
