package storage

// Stable key names for persisted client state.
const (
	KeyChats              = "assistant:chats"
	KeyActiveChatID       = "assistant:activeChatId"
	KeySettings           = "assistant:settings"
	KeyMemory             = "assistant:memory"
	KeyLastPrayerReminder = "assistant:lastPrayerReminder"
	KeyLocation           = "location"
	KeyPoints             = "points"
	KeyTasbihCount        = "tasbih:count"
	KeyProfile            = "profile"
)
