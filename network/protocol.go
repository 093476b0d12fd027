package network

const (
	MsgTypeHeartbeat = 1

	// 客户端 -> 服务端
	MsgTypeListTowns           = 101
	MsgTypeCreateTown          = 102
	MsgTypeJoinTown            = 103
	MsgTypeMovement            = 201
	MsgTypeChatMessage         = 202
	MsgTypeInteractableCommand = 203
	MsgTypeInteractableUpdate  = 204

	// 服务端 -> 客户端
	MsgTypeTownList         = 301
	MsgTypeTownCreated      = 302
	MsgTypeJoined           = 303
	MsgTypePlayerJoined     = 304
	MsgTypePlayerMoved      = 305
	MsgTypePlayerDisconnect = 306
	MsgTypeTownClosing      = 307
	MsgTypeCommandResponse  = 308
	MsgTypeError            = 309
)
