// town/town.go
package town

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/wfunc/townserver/area"
	"github.com/wfunc/townserver/logger"
	"github.com/wfunc/townserver/models"
	"github.com/wfunc/townserver/network"
	"github.com/wfunc/townserver/player"
	"github.com/wfunc/townserver/session"
)

// 加载期校验错误：致命，城镇初始化中止
var (
	ErrDuplicateAreaID  = fmt.Errorf("duplicate interactable area id")
	ErrOverlappingAreas = fmt.Errorf("interactable areas overlap")
)

var (
	ErrTownFull            = fmt.Errorf("town is at capacity")
	ErrTownNotFound        = fmt.Errorf("town not found")
	ErrUnknownInteractable = fmt.Errorf("no such interactable area")
)

// Town 一个共享 2D 空间的权威会话：独占持有玩家名册和固定的区域集合，
// 入站事件逐个持锁跑完（含同步广播副作用），因此同一城镇内不会出现
// 变更中途交错。
type Town struct {
	ID               string
	FriendlyName     string
	IsPubliclyListed bool
	UpdatePassword   string
	Capacity         int

	mutex         sync.Mutex
	players       []*player.Player
	interactables []area.Interactable
	broadcaster   Broadcaster
	tokens        TokenProvider
	recorder      RoundRecorder
}

func newTown(id, friendlyName, updatePassword string, isPublic bool, capacity int,
	broadcaster Broadcaster, tokens TokenProvider, recorder RoundRecorder) *Town {
	return &Town{
		ID:               id,
		FriendlyName:     friendlyName,
		IsPubliclyListed: isPublic,
		UpdatePassword:   updatePassword,
		Capacity:         capacity,
		broadcaster:      broadcaster,
		tokens:           tokens,
		recorder:         recorder,
	}
}

// InitializeFromMap 依据地图元数据构建区域集合。区域 id 冲突或任意两个
// 区域（按脚印扩展后）重叠均视为致命错误。
func (t *Town) InitializeFromMap(objects []models.MapObject) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	seen := make(map[string]bool)
	areas := make([]area.Interactable, 0, len(objects))
	for _, obj := range objects {
		if seen[obj.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateAreaID, obj.Name)
		}
		seen[obj.Name] = true

		a, err := area.FromMapObject(obj, t)
		if err != nil {
			return err
		}
		areas = append(areas, a)
	}

	for i := 0; i < len(areas); i++ {
		for j := i + 1; j < len(areas); j++ {
			if areas[i].Overlaps(areas[j]) {
				return fmt.Errorf("%w: %s and %s", ErrOverlappingAreas, areas[i].ID(), areas[j].ID())
			}
		}
	}

	t.interactables = areas
	return nil
}

// AddPlayer 创建玩家、请求视频令牌并广播 playerJoined
func (t *Town) AddPlayer(userName string, sess *session.Session) (*player.Player, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if len(t.players) >= t.Capacity {
		return nil, ErrTownFull
	}

	p := player.New(userName, sess)
	token, err := t.tokens.TokenForTown(t.ID, p.ID)
	if err != nil {
		return nil, err
	}
	p.VideoToken = token

	t.players = append(t.players, p)
	t.broadcastJSON(network.MsgTypePlayerJoined, p.Model())
	return p, nil
}

// RemovePlayer 断开处理：移出名册，广播 playerDisconnect，并把玩家从其
// 当前占用的区域移除。
func (t *Town) RemovePlayer(p *player.Player) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	kept := t.players[:0]
	for _, other := range t.players {
		if other.ID != p.ID {
			kept = append(kept, other)
		}
	}
	t.players = kept

	t.broadcastJSON(network.MsgTypePlayerDisconnect, p.Model())

	if id := p.Location.InteractableID; id != "" {
		if a := t.interactableByID(id); a != nil {
			a.Remove(p)
		}
	}
}

// UpdatePlayerLocation 把移动解析为区域进出。只有已活跃（≥1 占用者）的
// 区域才能通过移动进入；空区域只能由激活指令回填首批占用者。
func (t *Town) UpdatePlayerLocation(p *player.Player, location models.PlayerLocation) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	prev := t.interactableByID(p.Location.InteractableID)
	if prev == nil || !prev.Contains(location) {
		if prev != nil {
			prev.Remove(p)
		}
		var next area.Interactable
		for _, a := range t.interactables {
			if a.IsActive() && a.Contains(location) {
				next = a
				break
			}
		}
		if next != nil {
			location.InteractableID = next.ID()
		} else {
			location.InteractableID = ""
		}
		p.Location = location
		if next != nil {
			next.Add(p)
		}
	} else {
		location.InteractableID = prev.ID()
		p.Location = location
	}

	t.broadcastJSON(network.MsgTypePlayerMoved, p.Model())
}

// AddConversationArea 激活会话区域：设置话题（每次激活只设一次），回填
// 界内玩家，广播新快照。
func (t *Town) AddConversationArea(m models.InteractableModel) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	a := t.interactableByID(m.ID)
	conv, ok := a.(*area.ConversationArea)
	if !ok || conv.Topic() != "" || m.Topic == "" {
		return false
	}

	conv.SetTopic(m.Topic)
	conv.AddPlayersWithinBounds(t.players)
	t.broadcastJSON(network.MsgTypeInteractableUpdate, conv.Model())
	return true
}

// AddViewingArea 激活观影区域，规则与 AddConversationArea 相同
func (t *Town) AddViewingArea(m models.InteractableModel) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	a := t.interactableByID(m.ID)
	viewing, ok := a.(*area.ViewingArea)
	if !ok || viewing.Video() != "" || m.Video == "" {
		return false
	}

	viewing.UpdateModel(m)
	viewing.AddPlayersWithinBounds(t.players)
	t.broadcastJSON(network.MsgTypeInteractableUpdate, viewing.Model())
	return true
}

// UpdateInteractable 旧式直通更新（播放进度、暂停等非指令类变更）
func (t *Town) UpdateInteractable(m models.InteractableModel) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	viewing, ok := t.interactableByID(m.ID).(*area.ViewingArea)
	if !ok {
		return false
	}
	viewing.UpdateModel(m)
	t.broadcastJSON(network.MsgTypeInteractableUpdate, viewing.Model())
	return true
}

// HandleChatMessage 聊天消息原样广播
func (t *Town) HandleChatMessage(msg models.ChatMessage) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.broadcastJSON(network.MsgTypeChatMessage, msg)
}

// HandleCommand 把区域指令路由到对应区域。失败只反映在应答里，
// 共享状态不变；成功的变更由区域经 Emitter 广播。
func (t *Town) HandleCommand(p *player.Player, cmd *models.InteractableCommand) *models.CommandResponse {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	resp := &models.CommandResponse{
		CommandID:      cmd.CommandID,
		InteractableID: cmd.InteractableID,
	}

	a := t.interactableByID(cmd.InteractableID)
	if a == nil {
		resp.Error = ErrUnknownInteractable.Error()
		return resp
	}

	payload, err := a.HandleCommand(p, cmd)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Payload = payload
	return resp
}

// DisconnectAllPlayers 广播 townClosing 并强制断开所有连接
func (t *Town) DisconnectAllPlayers() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.broadcastJSON(network.MsgTypeTownClosing, struct{}{})
	for _, p := range t.players {
		if sess := p.Session(); sess != nil {
			sess.Close()
		}
	}
	t.players = nil
}

// Player 按 id 查找玩家
func (t *Town) Player(playerID string) (*player.Player, bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	for _, p := range t.players {
		if p.ID == playerID {
			return p, true
		}
	}
	return nil, false
}

func (t *Town) PlayerCount() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return len(t.players)
}

// PlayerModels 当前名册快照
func (t *Town) PlayerModels() []models.PlayerModel {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	result := make([]models.PlayerModel, 0, len(t.players))
	for _, p := range t.players {
		result = append(result, p.Model())
	}
	return result
}

// InteractableModels 当前全部区域快照
func (t *Town) InteractableModels() []models.InteractableModel {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	result := make([]models.InteractableModel, 0, len(t.interactables))
	for _, a := range t.interactables {
		result = append(result, a.Model())
	}
	return result
}

// ActiveAreaCount 活跃区域数（监控用）
func (t *Town) ActiveAreaCount() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	count := 0
	for _, a := range t.interactables {
		if a.IsActive() {
			count++
		}
	}
	return count
}

func (t *Town) interactableByID(id string) area.Interactable {
	if id == "" {
		return nil
	}
	for _, a := range t.interactables {
		if a.ID() == id {
			return a
		}
	}
	return nil
}

// --- 实现 area.Emitter 接口 ---

// PlayerMoved 区域变更引发的玩家位置通知
func (t *Town) PlayerMoved(p *player.Player) {
	t.broadcastJSON(network.MsgTypePlayerMoved, p.Model())
}

// AreaChanged 区域快照广播
func (t *Town) AreaChanged(a area.Interactable) {
	t.broadcastJSON(network.MsgTypeInteractableUpdate, a.Model())
}

// RoundOver 一局结束，交给记录器归档
func (t *Town) RoundOver(a area.Interactable, result models.GameResult) {
	if t.recorder != nil {
		t.recorder.RecordRound(t.ID, a.ID(), a.Model().GameType, result)
	}
}

func (t *Town) broadcastJSON(msgID uint16, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.Errorf("Failed to marshal broadcast for town %s: %v", t.ID, err)
		return
	}
	if err := t.broadcaster.BroadcastToTown(t.ID, msgID, data); err != nil {
		logger.Log.Errorf("Broadcast failed for town %s: %v", t.ID, err)
	}
}
