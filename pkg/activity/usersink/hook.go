package usersink

import (
	"context"
	"strings"
	"time"

	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
	"github.com/imchaeyun/wallet-options/pkg/activity"
)

// actorNamespace derives stable ids for actors that are not UUIDs, such as
// device names.
var actorNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:wallet-options:actor"))

// Hook forwards settings activity to a go-users ActivitySink. The wallet
// owner is both actor and user of the record; Tenant scopes records when
// several wallets share one sink.
type Hook struct {
	Sink   usertypes.ActivitySink
	Tenant uuid.UUID
}

// Notify maps the event into an ActivityRecord and forwards it to the sink.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}

	normalized := activity.NormalizeEvent(event)
	if normalized.Verb == "" || normalized.ObjectType == "" || normalized.ObjectID == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	actor := actorID(normalized.ActorID)
	record := usertypes.ActivityRecord{
		ActorID:    actor,
		UserID:     actor,
		TenantID:   h.Tenant,
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    normalized.Channel,
		Data:       cloneMap(normalized.Metadata),
		OccurredAt: normalized.OccurredAt,
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now()
	}
	if normalized.SessionID != "" {
		if record.Data == nil {
			record.Data = map[string]any{}
		}
		record.Data["session_id"] = normalized.SessionID
	}

	return h.Sink.Log(ctx, record)
}

// actorID parses UUID actors as is and derives a name-based UUID for any
// other non-empty actor.
func actorID(input string) uuid.UUID {
	value := strings.TrimSpace(input)
	if value == "" {
		return uuid.Nil
	}
	if id, err := uuid.Parse(value); err == nil {
		return id
	}
	return uuid.NewSHA1(actorNamespace, []byte(value))
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
