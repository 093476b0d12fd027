// area/viewing.go
package area

import (
	"github.com/wfunc/townserver/models"
	"github.com/wfunc/townserver/player"
)

// ViewingArea 带有共享视频播放状态的区域。视频引用与话题遵循同样的
// 设置一次、占用归零即清空的规则。
type ViewingArea struct {
	Base
	video          string
	isPlaying      bool
	elapsedTimeSec float64
}

func NewViewingArea(id string, box models.BoundingBox, emitter Emitter) *ViewingArea {
	v := &ViewingArea{Base: newBase(id, box, emitter)}
	v.self = v
	return v
}

func (v *ViewingArea) Video() string {
	return v.video
}

func (v *ViewingArea) SetVideo(video string) {
	v.video = video
}

// UpdateModel 直通更新播放状态（暂停/进度/换片），由旧式
// interactableUpdate 事件驱动。
func (v *ViewingArea) UpdateModel(m models.InteractableModel) {
	v.video = m.Video
	v.isPlaying = m.IsPlaying
	v.elapsedTimeSec = m.ElapsedTimeSec
}

func (v *ViewingArea) Remove(p *player.Player) {
	v.Base.Remove(p)
	if len(v.occupants) == 0 && v.video != "" {
		v.video = ""
		v.isPlaying = false
		v.elapsedTimeSec = 0
		v.emitter.AreaChanged(v)
	}
}

func (v *ViewingArea) Model() models.InteractableModel {
	return models.InteractableModel{
		ID:             v.id,
		Type:           models.TypeViewingArea,
		Occupants:      v.occupantIDs(),
		Video:          v.video,
		IsPlaying:      v.isPlaying,
		ElapsedTimeSec: v.elapsedTimeSec,
	}
}
