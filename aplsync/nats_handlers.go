package aplsync

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/common"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/constants"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/messaging"
	"github.com/jackc/pgx/v5"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// RegisterSyncSubscriptions ensures the sync stream exists and starts a
// durable consumer on the sync request subject. Upstream publishers use it
// to trigger a sync when a jurisdiction announces a new list.
func RegisterSyncSubscriptions(ctx context.Context, broker *messaging.NatsBroker, sources SourceConfigRepository, runner SourceRunner) (jetstream.ConsumeContext, error) {
	if _, err := messaging.EnsureStream(ctx, broker, constants.SyncStreamName, []string{
		constants.SyncRequestTopic,
		constants.SyncCompletedTopic,
	}); err != nil {
		return nil, err
	}

	consumer, err := messaging.GetJetStreamConsumer(broker, constants.SyncStreamName, constants.SyncRequestTopic)
	if err != nil {
		return nil, err
	}

	return messaging.ConsumeWithHandler(consumer, func(msg jetstream.Msg) error {
		return handleSyncRequest(ctx, msg.Data(), sources, runner)
	})
}

// handleSyncRequest resolves the requested source and runs it. A request for
// an unknown source or a source already mid-sync is dropped, not retried;
// redelivery would only repeat the same outcome.
func handleSyncRequest(ctx context.Context, data []byte, sources SourceConfigRepository, runner SourceRunner) error {
	var req messaging.SyncRequest
	if err := json.Unmarshal(data, &req); err != nil {
		log.Warn().Err(err).Msg("Discarding malformed sync request")
		return nil
	}

	source, err := sources.GetByKey(ctx, req.Jurisdiction, req.DataSource)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warn().Str("jurisdiction", req.Jurisdiction).Str("data_source", req.DataSource).Msg("Sync requested for unknown source")
			return nil
		}
		return err
	}

	_, err = runner.SyncSource(ctx, source, constants.TriggerWebhook, req.Force)
	if err != nil {
		if errors.Is(err, common.ErrSyncInProgress) || errors.Is(err, common.ErrSourceDisabled) {
			log.Info().Err(err).Str("jurisdiction", req.Jurisdiction).Str("data_source", req.DataSource).Msg("Sync request skipped")
			return nil
		}
		// The failure is already recorded on the job row; ack the
		// message so JetStream does not replay a failing source.
		log.Error().Err(err).Str("jurisdiction", req.Jurisdiction).Str("data_source", req.DataSource).Msg("Requested sync failed")
	}

	return nil
}
