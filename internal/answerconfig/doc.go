// Package answerconfig normalizes the answer key of quiz questions.
//
// An answer config is stored as a JSON object in a nullable column and comes in
// three shapes, selected by its "type" key:
//
//	{"type":"multiple_choice","options":["2","3","4"],"correct_index":1}
//	{"type":"fill_blank","accepted_answers":["Paris"]}
//	{"type":"essay"}
//
// LoadForDisplay materializes a config on read, synthesizing one from the
// legacy options/correct_answer columns when nothing has been stored yet.
// PrepareForStorage validates and serializes a config before every write.
// All functions are pure and safe for concurrent use.
package answerconfig
