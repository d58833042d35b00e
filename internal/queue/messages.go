package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// RebuildMsg asks a worker to rebuild every output from the dataset.
type RebuildMsg struct {
	ID          string    `json:"id"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

func NewRebuildMsg(reason string) (RebuildMsg, error) {
	id, err := gonanoid.New()
	if err != nil {
		return RebuildMsg{}, fmt.Errorf("failed to generate message id: %w", err)
	}
	return RebuildMsg{ID: id, Reason: reason, RequestedAt: time.Now().UTC()}, nil
}

// BuildCompletedMsg announces a finished build on BuildCompletedTopic.
type BuildCompletedMsg struct {
	BuildID    string    `json:"build_id"`
	Passages   int       `json:"passages"`
	Graphs     int       `json:"graphs"`
	Dangling   int       `json:"dangling"`
	DurationMs int64     `json:"duration_ms"`
	FinishedAt time.Time `json:"finished_at"`
}

// RequestRebuild publishes a RebuildMsg on RebuildQueue.
func RequestRebuild(ctx context.Context, ch Publisher, reason string) (RebuildMsg, error) {
	msg, err := NewRebuildMsg(reason)
	if err != nil {
		return msg, err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return msg, err
	}
	if err := PublishFIFO(ctx, ch, RebuildQueue, body); err != nil {
		return msg, fmt.Errorf("failed to publish rebuild request: %w", err)
	}
	return msg, nil
}

// AnnounceBuild publishes msg on BuildCompletedTopic.
func AnnounceBuild(ctx context.Context, ch Publisher, msg BuildCompletedMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := PublishTopic(ctx, ch, BuildCompletedTopic, body); err != nil {
		return fmt.Errorf("failed to publish build event: %w", err)
	}
	return nil
}
