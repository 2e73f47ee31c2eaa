package chatbot

import (
	"context"

	domainInstance "github.com/fillow/wap-core/domains/instance"
	domainMessage "github.com/fillow/wap-core/domains/message"
	"github.com/fillow/wap-core/pkg/msgworker"
)

// Dispatcher serializes chatbot processing per (instance, remote_jid)
// by reusing the global FNV-sharded message worker pool, matching
// spec.md §4.G's "strict task serialization" requirement without a
// dedicated per-pair mutex map.
type Dispatcher struct {
	handle func(ctx context.Context, inst domainInstance.Instance, msg domainMessage.Message)
}

// NewDispatcher binds the per-message handler the shard worker invokes.
func NewDispatcher(handle func(ctx context.Context, inst domainInstance.Instance, msg domainMessage.Message)) *Dispatcher {
	return &Dispatcher{handle: handle}
}

// Submit enqueues msg onto the shard for (inst.ID, msg.RemoteJID). If
// the shard's queue is full the job is dropped, matching the worker
// pool's existing backpressure policy for the rest of the platform.
func (d *Dispatcher) Submit(inst domainInstance.Instance, msg domainMessage.Message) {
	msgworker.GetGlobalPool().TryDispatch(msgworker.MessageJob{
		InstanceID: inst.ID,
		ChatJID:    msg.RemoteJID,
		Handler: func(ctx context.Context) error {
			d.handle(ctx, inst, msg)
			return nil
		},
	})
}
