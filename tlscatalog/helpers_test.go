package tlscatalog_test

import (
	"github.com/zoobzio/tlsfuzz/term"
	"github.com/zoobzio/tlsfuzz/trace"
)

var testAgent = term.FirstAgentName()

func newTestKnowledge() *trace.Knowledge {
	return trace.NewKnowledge()
}
