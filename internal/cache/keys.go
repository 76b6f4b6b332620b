package cache

import "fmt"

const questionKeyPrefix = "question:"

func QuestionKey(id uint) string {
	return fmt.Sprintf("%s%d:detail", questionKeyPrefix, id)
}

func AnswerConfigKey(id uint) string {
	return fmt.Sprintf("%s%d:answer_config", questionKeyPrefix, id)
}

// QuestionPattern matches every key cached for one question.
func QuestionPattern(id uint) string {
	return fmt.Sprintf("%s%d:*", questionKeyPrefix, id)
}
