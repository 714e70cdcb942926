package peer

import (
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// recordSender collects messages sent to the event loop.
type recordSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recordSender) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordSender) Messages() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]tea.Msg, len(r.msgs))
	copy(out, r.msgs)
	return out
}

func (r *recordSender) peers() []PeersMsg {
	var out []PeersMsg
	for _, m := range r.Messages() {
		if p, ok := m.(PeersMsg); ok {
			out = append(out, p)
		}
	}
	return out
}

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  string
}

// fakeBroker stands in for MQTTClient. Retained messages are delivered on
// Subscribe, like a real broker.
type fakeBroker struct {
	mu           sync.Mutex
	subs         map[string]MessageHandler
	retained     map[string][]byte
	published    []published
	unsubscribed []string
	disconnected bool
	publishErr   error
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{
		subs:     make(map[string]MessageHandler),
		retained: make(map[string][]byte),
	}
}

func (f *fakeBroker) Subscribe(topic string, qos byte, handler MessageHandler) error {
	f.mu.Lock()
	f.subs[topic] = handler
	var replay [][2]string
	for t, p := range f.retained {
		if topicMatches(topic, t) {
			replay = append(replay, [2]string{t, string(p)})
		}
	}
	f.mu.Unlock()

	for _, r := range replay {
		handler(r[0], []byte(r[1]))
	}
	return nil
}

func (f *fakeBroker) Publish(topic string, qos byte, retained bool, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{topic, qos, retained, string(payload)})
	return nil
}

func (f *fakeBroker) Unsubscribe(topics ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribed = append(f.unsubscribed, topics...)
	return nil
}

func (f *fakeBroker) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = true
}

// deliver routes a message to every matching subscription.
func (f *fakeBroker) deliver(topic, payload string) {
	f.mu.Lock()
	var handlers []MessageHandler
	for filter, h := range f.subs {
		if topicMatches(filter, topic) {
			handlers = append(handlers, h)
		}
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(topic, []byte(payload))
	}
}

func (f *fakeBroker) Published() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]published, len(f.published))
	copy(out, f.published)
	return out
}

func topicMatches(filter, topic string) bool {
	fp := strings.Split(filter, "/")
	tp := strings.Split(topic, "/")
	for i, f := range fp {
		if f == "#" {
			return true
		}
		if i >= len(tp) {
			return false
		}
		if f != "+" && f != tp[i] {
			return false
		}
	}
	return len(fp) == len(tp)
}
