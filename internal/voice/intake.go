package voice

import (
	"context"
	"log/slog"

	"github.com/veckert/daybook/internal/collection"
	"github.com/veckert/daybook/internal/models"
)

// RunIntake consumes finished transcripts from the adapter, interprets them,
// and adds the actionable ones to the collection as items of the given list
// type. It returns when ctx is cancelled or the adapter is closed.
func RunIntake(ctx context.Context, a *Adapter, mgr *collection.Manager, lt models.ListType, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case transcript, ok := <-a.Transcripts():
			if !ok {
				return
			}
			text, actionable := Interpret(transcript)
			if !actionable {
				logger.Debug("voice: transcript not actionable", slog.String("transcript", transcript))
				continue
			}
			if _, added := mgr.Add(ctx, models.Item{Title: text, ListType: lt}); added {
				logger.Info("voice: item added", slog.String("title", text), slog.String("list", string(lt)))
			}
		}
	}
}
