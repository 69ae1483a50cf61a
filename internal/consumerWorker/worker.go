package consumerWorker

import (
	"context"
	"encoding/json"

	"github.com/wb-go/wbf/zlog"

	"rsvpbook/internal/dto"
	"rsvpbook/internal/mailer"
	"rsvpbook/internal/rabbit"
	"rsvpbook/internal/repo"
)

type Reader struct {
	RMQ    *rabbit.Client
	repo   repo.Repository
	mail   mailer.Config
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, repo repo.Repository, mail mailer.Config) *Reader {
	return &Reader{
		RMQ:  rmq,
		repo: repo,
		mail: mail,
		done: make(chan struct{}),
	}
}

// Start consumes RSVP mail messages. A "confirmation" message is sent the
// moment a family submits; a "reminder" message arrives after its broker
// delay and is only acted on if the family still has not submitted.
func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("RSVP mail worker started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var msg dto.ReminderMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("Failed to unmarshal message: %s", string(body))
				return err
			}

			zlog.Logger.Info().
				Int64("family_id", msg.FamilyID).
				Str("kind", msg.Kind).
				Msg("Received message from RabbitMQ")

			family, err := r.repo.GetFamilyByID(cctx, msg.FamilyID)
			if err != nil {
				zlog.Logger.Error().
					Err(err).
					Int64("family_id", msg.FamilyID).
					Msg("Failed to get family from DB in worker")
				return nil
			}

			status := "confirmed"
			if msg.Kind == "reminder" {
				if family.RSVPSubmitted {
					zlog.Logger.Info().
						Int64("family_id", msg.FamilyID).
						Msg("Family already submitted — skipping reminder")
					return nil
				}
				status = "reminder"
			}

			if family.ContactEmail == "" {
				zlog.Logger.Info().
					Int64("family_id", msg.FamilyID).
					Msg("Family has no contact email — skipping")
				return nil
			}

			brideName, groomName := "the bride", "the groom"
			if details, err := r.repo.GetWeddingDetails(cctx); err == nil && details != nil {
				brideName, groomName = details.BrideName, details.GroomName
			}

			if err := mailer.SendRSVPEmail(
				&zlog.Logger,
				r.mail,
				family.FamilyName,
				status,
				family.ContactEmail,
				brideName,
				groomName,
			); err != nil {
				zlog.Logger.Warn().
					Err(err).
					Msg("Failed to send notification on e-mail")
			} else {
				zlog.Logger.Info().
					Str("email", family.ContactEmail).
					Int64("family_id", msg.FamilyID).
					Msgf("%s email sent successfully", status)
			}

			return nil
		}

		if err := r.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("RSVP mail worker stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
