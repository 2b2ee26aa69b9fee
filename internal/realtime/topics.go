package realtime

// Topic names follow the collection/id shape of the stored records.

func UserTopic(uid string) string { return "users/" + uid }

func PoolTopic(poolID string) string { return "pools/" + poolID }

func ChatTopic(chatID string) string { return "chats/" + chatID }
