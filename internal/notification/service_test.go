package notification

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wirabuild/construction-management/internal/core/events"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Module Suite")
}

type mockDeviceTokenRepo struct {
	tokens     map[string][]*DeviceToken
	upserts    int
	listError  error
	writeError error
}

func newMockDeviceTokenRepo() *mockDeviceTokenRepo {
	return &mockDeviceTokenRepo{tokens: make(map[string][]*DeviceToken)}
}

func (m *mockDeviceTokenRepo) UpsertDeviceToken(_ context.Context, userID, token, platform string) error {
	if m.writeError != nil {
		return m.writeError
	}
	m.upserts++
	for _, existing := range m.tokens[userID] {
		if existing.Token == token {
			existing.Platform = platform
			return nil
		}
	}
	m.tokens[userID] = append(m.tokens[userID], &DeviceToken{UserID: userID, Token: token, Platform: platform})
	return nil
}

func (m *mockDeviceTokenRepo) ListDeviceTokens(_ context.Context, userIDs []string) ([]*DeviceToken, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var out []*DeviceToken
	for _, id := range userIDs {
		out = append(out, m.tokens[id]...)
	}
	return out, nil
}

func (m *mockDeviceTokenRepo) DeleteDeviceToken(_ context.Context, userID, token string) error {
	kept := m.tokens[userID][:0]
	for _, existing := range m.tokens[userID] {
		if existing.Token != token {
			kept = append(kept, existing)
		}
	}
	m.tokens[userID] = kept
	return nil
}

type mockPublisher struct {
	published []Message
	queue     string
	pubError  error
}

func (m *mockPublisher) Publish(_ context.Context, queue string, data []byte, attrs map[string]string) (string, error) {
	if m.pubError != nil {
		return "", m.pubError
	}
	m.queue = queue
	m.published = append(m.published, Message{ID: "msg-1", Data: data, Attributes: attrs})
	return "msg-1", nil
}

func (m *mockPublisher) Consume(_ context.Context, _ string, _ ConsumeHandler) error {
	return nil
}

func (m *mockPublisher) Close() error { return nil }

type recordingDeliverer struct {
	delivered []string
	failFor   string
}

func (d *recordingDeliverer) Deliver(_ context.Context, token *DeviceToken, _ Notification) error {
	if token.Token == d.failFor {
		return errors.New("provider rejected token")
	}
	d.delivered = append(d.delivered, token.Token)
	return nil
}

var _ = Describe("Notification Service", func() {
	var (
		repo      *mockDeviceTokenRepo
		publisher *mockPublisher
		service   *Service
		ctx       context.Context
	)

	BeforeEach(func() {
		repo = newMockDeviceTokenRepo()
		publisher = &mockPublisher{}
		service = NewService(repo, publisher, "notifications", slog.Default())
		ctx = context.Background()
	})

	Describe("RegisterDeviceToken", func() {
		It("upserts a valid token", func() {
			err := service.RegisterDeviceToken(ctx, "user-1", RegisterDeviceTokenDTO{Token: "tok-a", Platform: "android"})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.tokens["user-1"]).To(HaveLen(1))
		})

		It("refreshes rather than duplicates on repeat registration", func() {
			Expect(service.RegisterDeviceToken(ctx, "user-1", RegisterDeviceTokenDTO{Token: "tok-a", Platform: "android"})).To(Succeed())
			Expect(service.RegisterDeviceToken(ctx, "user-1", RegisterDeviceTokenDTO{Token: "tok-a", Platform: "ios"})).To(Succeed())

			Expect(repo.tokens["user-1"]).To(HaveLen(1))
			Expect(repo.tokens["user-1"][0].Platform).To(Equal("ios"))
		})

		It("rejects an unknown platform", func() {
			err := service.RegisterDeviceToken(ctx, "user-1", RegisterDeviceTokenDTO{Token: "tok-a", Platform: "blackberry"})
			Expect(err).To(HaveOccurred())
			Expect(repo.upserts).To(BeZero())
		})

		It("rejects an empty token", func() {
			err := service.RegisterDeviceToken(ctx, "user-1", RegisterDeviceTokenDTO{Token: "  ", Platform: "ios"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Dispatch", func() {
		It("publishes the payload to the configured queue", func() {
			err := service.Dispatch(ctx, Notification{
				RecipientUserIDs: []string{"user-1"},
				Title:            "Reimbursement approved",
				Body:             "Your reimbursement of 125000 was approved",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(publisher.queue).To(Equal("notifications"))
			Expect(publisher.published).To(HaveLen(1))

			var decoded Notification
			Expect(json.Unmarshal(publisher.published[0].Data, &decoded)).To(Succeed())
			Expect(decoded.RecipientUserIDs).To(ConsistOf("user-1"))
			Expect(decoded.Title).To(Equal("Reimbursement approved"))
		})

		It("skips publishing when there are no recipients", func() {
			err := service.Dispatch(ctx, Notification{Title: "orphan"})
			Expect(err).NotTo(HaveOccurred())
			Expect(publisher.published).To(BeEmpty())
		})

		It("returns an error when the broker is down", func() {
			publisher.pubError = errors.New("connection refused")
			err := service.Dispatch(ctx, Notification{RecipientUserIDs: []string{"user-1"}, Title: "t"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("event bus wiring", func() {
		It("turns a reimbursement approval into a queue message for the submitter", func() {
			bus := events.NewEventBus(slog.Default())
			service.RegisterEventHandlers(bus)

			event := events.NewReimbursementApprovedEvent("reimb-1", "proj-1", "user-7", 250000)
			Expect(bus.PublishSync(ctx, event)).To(Succeed())

			Expect(publisher.published).To(HaveLen(1))
			var decoded Notification
			Expect(json.Unmarshal(publisher.published[0].Data, &decoded)).To(Succeed())
			Expect(decoded.RecipientUserIDs).To(ConsistOf("user-7"))
			Expect(decoded.Data["reimbursement_id"]).To(Equal("reimb-1"))
		})

		It("notifies the assigned staff member on task assignment", func() {
			bus := events.NewEventBus(slog.Default())
			service.RegisterEventHandlers(bus)

			event := events.NewTaskAssignedEvent("asg-1", "task-1", "proj-1", "staff-3", "Pour foundation")
			Expect(bus.PublishSync(ctx, event)).To(Succeed())

			Expect(publisher.published).To(HaveLen(1))
			var decoded Notification
			Expect(json.Unmarshal(publisher.published[0].Data, &decoded)).To(Succeed())
			Expect(decoded.RecipientUserIDs).To(ConsistOf("staff-3"))
			Expect(decoded.Body).To(ContainSubstring("Pour foundation"))
		})
	})

	Describe("Consumer", func() {
		It("delivers to every registered token and keeps going past provider failures", func() {
			Expect(repo.UpsertDeviceToken(ctx, "user-1", "tok-good", "android")).To(Succeed())
			Expect(repo.UpsertDeviceToken(ctx, "user-1", "tok-bad", "ios")).To(Succeed())

			deliverer := &recordingDeliverer{failFor: "tok-bad"}
			consumer := NewConsumer(repo, publisher, deliverer, "notifications", slog.Default())

			payload, err := json.Marshal(Notification{RecipientUserIDs: []string{"user-1"}, Title: "t"})
			Expect(err).NotTo(HaveOccurred())

			Expect(consumer.handle(ctx, Message{ID: "msg-1", Data: payload})).To(Succeed())
			Expect(deliverer.delivered).To(ConsistOf("tok-good"))
		})

		It("drops malformed payloads without requeueing", func() {
			deliverer := &recordingDeliverer{}
			consumer := NewConsumer(repo, publisher, deliverer, "notifications", slog.Default())

			Expect(consumer.handle(ctx, Message{ID: "msg-1", Data: []byte("{not json")})).To(Succeed())
			Expect(deliverer.delivered).To(BeEmpty())
		})
	})
})
