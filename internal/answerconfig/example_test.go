package answerconfig_test

import (
	"fmt"

	"github.com/SAP-F-2025/question-service/internal/answerconfig"
)

func ExamplePrepareForStorage() {
	stored, err := answerconfig.PrepareForStorage(
		`{"type":"fill_blank","accepted_answers":["Paris","paris"," PARIS ","Lyon"]}`,
		answerconfig.RawAttributes{Type: "fill_blank"},
	)
	if err != nil {
		fmt.Println("rejected:", err)
		return
	}
	fmt.Println(string(stored))
	// Output: {"type":"fill_blank","accepted_answers":["Paris","Lyon"]}
}

func ExampleLoadForDisplay() {
	legacy := answerconfig.RawAttributes{
		Type:          "multiple_choice",
		Options:       `["Red","Blue"]`,
		CorrectAnswer: "Blue",
	}

	cfg, err := answerconfig.LoadForDisplay(nil, legacy)
	if err != nil {
		fmt.Println("rejected:", err)
		return
	}
	mc := cfg.(answerconfig.MultipleChoiceConfig)
	fmt.Println(mc.Options, mc.CorrectIndex)
	// Output: [Red Blue] 1
}
