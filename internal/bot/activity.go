package bot

// Activity is the subset of the Bot Framework activity schema this service
// reads and writes.
type Activity struct {
	Type         string              `json:"type"`
	ID           string              `json:"id,omitempty"`
	Text         string              `json:"text,omitempty"`
	ServiceURL   string              `json:"serviceUrl,omitempty"`
	ChannelID    string              `json:"channelId,omitempty"`
	Conversation ConversationAccount `json:"conversation"`
	From         ChannelAccount      `json:"from"`
	Recipient    ChannelAccount      `json:"recipient"`
	ReplyToID    string              `json:"replyToId,omitempty"`
}

type ConversationAccount struct {
	ID string `json:"id"`
}

type ChannelAccount struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	AADObjectID string `json:"aadObjectId,omitempty"`
}

const activityTypeMessage = "message"

// userIdentity resolves the stable identity a conversation is keyed by: the
// AAD object id when present, the channel account id otherwise.
func (a Activity) userIdentity() string {
	if a.From.AADObjectID != "" {
		return a.From.AADObjectID
	}
	return a.From.ID
}

// reply builds a message activity addressed back to the sender.
func (a Activity) reply(text string) Activity {
	return Activity{
		Type:         activityTypeMessage,
		Text:         text,
		ServiceURL:   a.ServiceURL,
		ChannelID:    a.ChannelID,
		Conversation: a.Conversation,
		From:         a.Recipient,
		Recipient:    a.From,
		ReplyToID:    a.ID,
	}
}
