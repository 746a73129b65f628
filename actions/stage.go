package actions

import (
	"context"
	"encoding/json"
	"io"

	"github.com/relloyd/lakepipe/event"
)

// RunStage parses the event in raw, runs the stage registered for action and writes the
// JSON response to out.
func RunStage(ctx context.Context, stages map[string]StageFunc, action string, raw []byte, out io.Writer) error {
	fn, err := lookupStage(stages, action)
	if err != nil {
		return err
	}
	e, err := event.Parse(raw)
	if err != nil {
		return err
	}
	resp, err := fn(ctx, e)
	if err != nil {
		return err
	}
	j, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	_, err = out.Write(append(j, '\n'))
	return err
}
