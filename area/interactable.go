// area/interactable.go
package area

import (
	"errors"

	"github.com/wfunc/townserver/models"
	"github.com/wfunc/townserver/player"
)

var (
	ErrUnknownCommand = errors.New("unknown command type")
	ErrGameIDMismatch = errors.New("game ID does not match the current game")
	ErrNoGameInActive = errors.New("no game in progress")
)

// Emitter 区域变更的通知出口。由 Town 实现并完成实际广播，区域本身
// 不直接接触连接。This also breaks the import cycle between area and town.
type Emitter interface {
	PlayerMoved(p *player.Player)
	AreaChanged(a Interactable)
	RoundOver(a Interactable, result models.GameResult)
}

// Interactable 一个具名矩形区域，跟踪当前占用者。随地图加载创建，
// 在 Town 存续期间不会销毁。
type Interactable interface {
	ID() string
	Box() models.BoundingBox
	Contains(loc models.PlayerLocation) bool
	Overlaps(other Interactable) bool
	IsActive() bool
	Add(p *player.Player)
	Remove(p *player.Player)
	Occupants() []*player.Player
	AddPlayersWithinBounds(players []*player.Player)
	HandleCommand(p *player.Player, cmd *models.InteractableCommand) (map[string]interface{}, error)
	Model() models.InteractableModel
}

// Base 各具体区域内嵌的公共部分。self 指向外层具体区域，使基础方法
// 能以完整快照发出 area-changed 通知。
type Base struct {
	id        string
	box       models.BoundingBox
	occupants []*player.Player
	emitter   Emitter
	self      Interactable
}

func newBase(id string, box models.BoundingBox, emitter Emitter) Base {
	return Base{id: id, box: box, emitter: emitter}
}

func (b *Base) ID() string {
	return b.id
}

func (b *Base) Box() models.BoundingBox {
	return b.box
}

// Contains 判断玩家脚印是否落入区域内，四边均为严格不等，贴边不算
func (b *Base) Contains(loc models.PlayerLocation) bool {
	return b.box.ContainsLocation(loc)
}

// Overlaps 双方各向外扩一半脚印后的轴对齐重叠判定，对称
func (b *Base) Overlaps(other Interactable) bool {
	return b.box.Overlaps(other.Box())
}

// IsActive 有至少一名占用者即视为活跃
func (b *Base) IsActive() bool {
	return len(b.occupants) > 0
}

func (b *Base) Occupants() []*player.Player {
	result := make([]*player.Player, len(b.occupants))
	copy(result, b.occupants)
	return result
}

func (b *Base) occupantIDs() []string {
	ids := make([]string, 0, len(b.occupants))
	for _, p := range b.occupants {
		ids = append(ids, p.ID)
	}
	return ids
}

// Add 追加占用者，在玩家位置上盖上区域 id，先发玩家位置变更再发区域变更
func (b *Base) Add(p *player.Player) {
	b.occupants = append(b.occupants, p)
	p.Location.InteractableID = b.id
	b.emitter.PlayerMoved(p)
	b.emitter.AreaChanged(b.self)
}

// Remove 与 Add 相反。具体区域覆盖此方法以在占用归零时清掉可选属性
func (b *Base) Remove(p *player.Player) {
	kept := b.occupants[:0]
	for _, o := range b.occupants {
		if o.ID != p.ID {
			kept = append(kept, o)
		}
	}
	b.occupants = kept
	p.Location.InteractableID = ""
	b.emitter.PlayerMoved(p)
	b.emitter.AreaChanged(b.self)
}

// AddPlayersWithinBounds 把位置落在区域内的玩家全部加入。用于激活
// 指令回填，绕过移动路径上的“已活跃”门槛。
func (b *Base) AddPlayersWithinBounds(players []*player.Player) {
	for _, p := range players {
		if b.Contains(p.Location) {
			b.self.Add(p)
		}
	}
}

// HandleCommand 基础区域不接受指令
func (b *Base) HandleCommand(p *player.Player, cmd *models.InteractableCommand) (map[string]interface{}, error) {
	return nil, ErrUnknownCommand
}
