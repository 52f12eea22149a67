// Package room defines the interview-room provisioning collaborator. The
// concrete video backend is external; the engine only needs room+token
// creation and a deterministic naming scheme.
package room

import (
	"context"
	"fmt"
	"time"

	"talentgate/pkg/domain"
)

// Room is a provisioned interview room with a participant join token.
type Room struct {
	Name  string
	URL   string
	Token string
}

// Provisioner creates interview rooms on the external video service.
type Provisioner interface {
	CreateRoom(ctx context.Context, name string, metadata map[string]string, ownerTag, participantName string) (Room, error)
}

// Name generates a unique room name embedding the application id and the
// provisioning instant, so concurrent interviews never collide and the room
// is traceable back to its application.
func Name(appID domain.ApplicationID, now time.Time) string {
	return fmt.Sprintf("interview-%s-%d", appID.String(), now.Unix())
}
