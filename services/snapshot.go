package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtside/padel-system/models"
	"github.com/courtside/padel-system/repositories"
	"github.com/courtside/padel-system/storage"
	"github.com/google/uuid"
)

// DrawPublisher pushes a JSON snapshot of a modality's draws to object
// storage after every generation or decided result, so rendering frontends
// can fetch the bracket without hitting the engine. Publication is
// best-effort: failures are logged and never fail the triggering operation.
type DrawPublisher struct {
	uploader  storage.Uploader
	matchRepo repositories.MatchRepository
	logger    *slog.Logger
}

func NewDrawPublisher(uploader storage.Uploader, matchRepo repositories.MatchRepository, logger *slog.Logger) *DrawPublisher {
	return &DrawPublisher{uploader: uploader, matchRepo: matchRepo, logger: logger}
}

type drawSnapshot struct {
	ModalityID  int                    `json:"modality_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Main        []*models.BracketMatch `json:"main"`
	Consolation []*models.BracketMatch `json:"consolation,omitempty"`
	Groups      []*models.BracketMatch `json:"groups,omitempty"`
}

// PublishDraw uploads the current state of all draws of a modality.
func (p *DrawPublisher) PublishDraw(ctx context.Context, modalityID int) {
	if p == nil || p.uploader == nil {
		return
	}

	snapshot := drawSnapshot{ModalityID: modalityID, GeneratedAt: time.Now().UTC()}
	var err error
	if snapshot.Main, err = p.matchRepo.ListByStage(ctx, modalityID, models.StageMain); err != nil {
		p.logger.Error("draw snapshot: failed to load main draw",
			slog.Int("modality", modalityID), slog.Any("error", err))
		return
	}
	if snapshot.Consolation, err = p.matchRepo.ListByStage(ctx, modalityID, models.StageConsolation); err != nil {
		p.logger.Error("draw snapshot: failed to load consolation draw",
			slog.Int("modality", modalityID), slog.Any("error", err))
		return
	}
	if snapshot.Groups, err = p.matchRepo.ListByStage(ctx, modalityID, models.StageGroups); err != nil {
		p.logger.Error("draw snapshot: failed to load group stage",
			slog.Int("modality", modalityID), slog.Any("error", err))
		return
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		p.logger.Error("draw snapshot: marshal failed", slog.Any("error", err))
		return
	}

	key := fmt.Sprintf("draws/%d/%s.json", modalityID, uuid.NewString())
	result, err := p.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		p.logger.Warn("draw snapshot: upload failed",
			slog.Int("modality", modalityID), slog.Any("error", err))
		return
	}
	p.logger.Info("draw snapshot published",
		slog.Int("modality", modalityID), slog.String("location", result.Location))
}
