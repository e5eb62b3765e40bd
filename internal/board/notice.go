package board

import "time"

// NoticeKind classifies a toast.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

func (k NoticeKind) String() string {
	if k == NoticeError {
		return "error"
	}
	return "success"
}

// Notice is a transient message shown after an action completes.
type Notice struct {
	ID   int
	Kind NoticeKind
	Text string
	At   time.Time
}

// Notices returns the pending notices, oldest first.
func (b *Board) Notices() []Notice {
	out := make([]Notice, len(b.notices))
	copy(out, b.notices)
	return out
}

// LastNotice returns the newest pending notice.
func (b *Board) LastNotice() (Notice, bool) {
	if len(b.notices) == 0 {
		return Notice{}, false
	}
	return b.notices[len(b.notices)-1], true
}

// Dismiss removes notice id; unknown ids are ignored.
func (b *Board) Dismiss(id int) {
	for i, n := range b.notices {
		if n.ID == id {
			b.notices = append(b.notices[:i], b.notices[i+1:]...)
			return
		}
	}
}

func (b *Board) notify(kind NoticeKind, text string) {
	b.nextNotice++
	b.notices = append(b.notices, Notice{
		ID:   b.nextNotice,
		Kind: kind,
		Text: text,
		At:   b.opts.Now(),
	})
	if len(b.notices) > maxNotices {
		b.notices = b.notices[len(b.notices)-maxNotices:]
	}
}
