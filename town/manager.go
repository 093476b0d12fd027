// town/manager.go
package town

import (
	"sync"

	"github.com/google/uuid"

	"github.com/wfunc/townserver/models"
)

// Manager 管理进程内的全部城镇。显式注册表，由组装层持有，
// 不使用全局单例。
type Manager struct {
	towns           map[string]*Town
	mutex           sync.RWMutex
	broadcaster     Broadcaster
	tokens          TokenProvider
	recorder        RoundRecorder
	defaultCapacity int
}

func NewManager(broadcaster Broadcaster, tokens TokenProvider, defaultCapacity int) *Manager {
	return &Manager{
		towns:           make(map[string]*Town),
		broadcaster:     broadcaster,
		tokens:          tokens,
		defaultCapacity: defaultCapacity,
	}
}

// SetRecorder 设置一局结束时的归档回调（可选）
func (m *Manager) SetRecorder(recorder RoundRecorder) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.recorder = recorder
}

// CreateTown 新建城镇：分配 id 和更新口令，校验并构建地图区域
func (m *Manager) CreateTown(friendlyName string, isPublic bool, mapObjects []models.MapObject) (*Town, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	t := newTown(uuid.New().String(), friendlyName, uuid.New().String(), isPublic,
		m.defaultCapacity, m.broadcaster, m.tokens, m.recorder)
	if err := t.InitializeFromMap(mapObjects); err != nil {
		return nil, err
	}

	m.towns[t.ID] = t
	return t, nil
}

// GetTown 按 id 获取城镇
func (m *Manager) GetTown(id string) (*Town, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	t, exists := m.towns[id]
	return t, exists
}

// RemoveTown 先断开所有玩家再从注册表移除
func (m *Manager) RemoveTown(id string) {
	m.mutex.Lock()
	t, exists := m.towns[id]
	if exists {
		delete(m.towns, id)
	}
	m.mutex.Unlock()

	if exists {
		t.DisconnectAllPlayers()
	}
}

// Towns 当前城镇快照
func (m *Manager) Towns() []*Town {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	result := make([]*Town, 0, len(m.towns))
	for _, t := range m.towns {
		result = append(result, t)
	}
	return result
}

// Count 当前城镇数
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.towns)
}
