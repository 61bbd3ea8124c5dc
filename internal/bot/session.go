package bot

// Stage is one discrete point in the multi-step post-authoring dialogue
type Stage int

const (
	StageIdle Stage = iota
	StageAwaitingTitle
	StageAwaitingContent
	StageAwaitingImageChoice
	StageAwaitingImageUpload
	StageAwaitingCategory
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAwaitingTitle:
		return "awaiting_title"
	case StageAwaitingContent:
		return "awaiting_content"
	case StageAwaitingImageChoice:
		return "awaiting_image_choice"
	case StageAwaitingImageUpload:
		return "awaiting_image_upload"
	case StageAwaitingCategory:
		return "awaiting_category"
	default:
		return "unknown"
	}
}

// Draft is the partial post record accumulated across stages
type Draft struct {
	Title   string
	Content string
	Summary string
	Image   string
}

// Session tracks one chat's progress through the authoring dialogue.
// The stage determines which draft fields are populated and which
// incoming events are legal.
type Session struct {
	Stage Stage
	Draft Draft
}

// reset returns the session to the idle stage with an empty draft
func (s *Session) reset() {
	*s = Session{}
}

// session returns the chat's session, lazily creating an idle one
func (b *Bot) session(chatID int64) *Session {
	if sess, ok := b.sessions[chatID]; ok {
		return sess
	}
	sess := &Session{}
	b.sessions[chatID] = sess
	return sess
}
