// area/conversation.go
package area

import (
	"github.com/wfunc/townserver/models"
	"github.com/wfunc/townserver/player"
)

// ConversationArea 带有可选话题的区域。话题在每次激活时设置一次，
// 最后一名占用者离开后清空。
type ConversationArea struct {
	Base
	topic string
}

func NewConversationArea(id string, box models.BoundingBox, emitter Emitter) *ConversationArea {
	c := &ConversationArea{Base: newBase(id, box, emitter)}
	c.self = c
	return c
}

func (c *ConversationArea) Topic() string {
	return c.topic
}

func (c *ConversationArea) SetTopic(topic string) {
	c.topic = topic
}

func (c *ConversationArea) Remove(p *player.Player) {
	c.Base.Remove(p)
	if len(c.occupants) == 0 && c.topic != "" {
		c.topic = ""
		c.emitter.AreaChanged(c)
	}
}

func (c *ConversationArea) Model() models.InteractableModel {
	return models.InteractableModel{
		ID:        c.id,
		Type:      models.TypeConversationArea,
		Occupants: c.occupantIDs(),
		Topic:     c.topic,
	}
}
