package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"spamguard/internal/bypass"
	"spamguard/internal/policy"
)

// executePostAction enforces the decided action on a forum post. Hiding is
// opportunistic: content without the capability passes through unchanged.
func (p *Pipeline) executePostAction(action policy.Action, item Content, member bypass.Member, score float64) {
	switch action {
	case policy.ActionBlock, policy.ActionModerate:
		p.hide(item)
		p.notify(p.describe("Post", action, member, score))
	case policy.ActionWarn:
		p.notify(p.describe("Post", action, member, score))
	case policy.ActionAllow:
	}
}

// executeMessageAction enforces the decided action on a private message.
// Messages cannot be queued for moderation, so moderate and warn both reduce
// to an admin notification.
func (p *Pipeline) executeMessageAction(action policy.Action, item Content, member bypass.Member, score float64) {
	switch action {
	case policy.ActionBlock:
		p.delete(item)
		p.notify(p.describe("Message", action, member, score))
	case policy.ActionModerate, policy.ActionWarn:
		p.notify(p.describe("Message", action, member, score))
	case policy.ActionAllow:
	}
}

func (p *Pipeline) hide(item Content) {
	hideable, ok := item.(Hideable)
	if !ok {
		return
	}
	if err := hideable.Hide(); err != nil {
		p.logger.Error("Failed to hide content", zap.Int64("content_id", item.ContentID()), zap.Error(err))
	}
}

func (p *Pipeline) delete(item Content) {
	deletable, ok := item.(Deletable)
	if !ok {
		return
	}
	if err := deletable.Delete(); err != nil {
		p.logger.Error("Failed to delete content", zap.Int64("content_id", item.ContentID()), zap.Error(err))
	}
}

func (p *Pipeline) describe(kind string, action policy.Action, member bypass.Member, score float64) string {
	name := "unknown"
	var id int64
	if member != nil {
		name = member.Name()
		id = member.MemberID()
	}
	return fmt.Sprintf("%s %s: by %s (ID: %d) with score %.2f", kind, action, name, id, score)
}
