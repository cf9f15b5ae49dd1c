package services

import (
	"sync"
	"time"
)

type NoticeLevel string

const (
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-visible message about an operation that did not fully
// succeed.
type Notice struct {
	Time     time.Time   `json:"time"`
	Level    NoticeLevel `json:"level"`
	Op       string      `json:"op"`
	EntityID string      `json:"entityId,omitempty"`
	Message  string      `json:"message"`
	Err      error       `json:"-"`
}

// noticeQueue keeps the most recent notices, dropping the oldest when full.
type noticeQueue struct {
	mu       sync.Mutex
	capacity int
	items    []Notice
}

func newNoticeQueue(capacity int) *noticeQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &noticeQueue{capacity: capacity}
}

func (q *noticeQueue) push(n Notice) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n.Time.IsZero() {
		n.Time = time.Now()
	}
	q.items = append(q.items, n)
	if over := len(q.items) - q.capacity; over > 0 {
		q.items = append([]Notice(nil), q.items[over:]...)
	}
}

func (q *noticeQueue) list() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Notice(nil), q.items...)
}

func (q *noticeQueue) drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}
