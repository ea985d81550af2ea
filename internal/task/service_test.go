package task

import (
	"context"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wirabuild/construction-management/internal"
	"github.com/wirabuild/construction-management/internal/auth"
	taskDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/task"
	"github.com/wirabuild/construction-management/internal/core/events"
)

func TestTask(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Task Module Suite")
}

type mockRepository struct {
	tasks       map[string]*taskDatamodel.Task
	assignments map[string]*taskDatamodel.TaskAssignment
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		tasks:       make(map[string]*taskDatamodel.Task),
		assignments: make(map[string]*taskDatamodel.TaskAssignment),
	}
}

func (m *mockRepository) CreateTask(record *taskDatamodel.Task) error {
	m.tasks[record.ID] = record
	return nil
}

func (m *mockRepository) GetTask(id string) (*taskDatamodel.Task, error) {
	return m.tasks[id], nil
}

func (m *mockRepository) ListTasks(projectID string) ([]*taskDatamodel.Task, error) {
	var out []*taskDatamodel.Task
	for _, t := range m.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockRepository) UpdateTaskStatus(id string, status string) error {
	if t, ok := m.tasks[id]; ok {
		t.Status = status
	}
	return nil
}

func (m *mockRepository) DeleteTask(id string) error {
	delete(m.tasks, id)
	return nil
}

func (m *mockRepository) GetAssignment(taskID, staffUserID string) (*taskDatamodel.TaskAssignment, error) {
	for _, a := range m.assignments {
		if a.TaskID == taskID && a.StaffUserID == staffUserID {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockRepository) GetAssignmentByID(id string) (*taskDatamodel.TaskAssignment, error) {
	return m.assignments[id], nil
}

func (m *mockRepository) CreateAssignment(record *taskDatamodel.TaskAssignment) error {
	m.assignments[record.ID] = record
	return nil
}

func (m *mockRepository) CompleteAssignment(id string, completedAt time.Time) error {
	if a, ok := m.assignments[id]; ok {
		a.Status = string(AssignmentStatusCompleted)
		a.CompletedAt = &completedAt
	}
	return nil
}

func (m *mockRepository) ListAssignmentsByProject(projectID string) ([]*taskDatamodel.TaskAssignment, error) {
	var out []*taskDatamodel.TaskAssignment
	for _, a := range m.assignments {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepository) ListAssignmentsByStaff(staffUserID string) ([]*taskDatamodel.TaskAssignment, error) {
	var out []*taskDatamodel.TaskAssignment
	for _, a := range m.assignments {
		if a.StaffUserID == staffUserID {
			out = append(out, a)
		}
	}
	return out, nil
}

func sessionUser(id, companyID string, role auth.Role) *auth.User {
	var cid *string
	if companyID != "" {
		cid = &companyID
	}
	return &auth.User{
		ID:          id,
		CompanyID:   cid,
		Role:        role,
		Permissions: auth.ExpandPermissions(role),
	}
}

func countOutcome(results []AssignmentResult, outcome string) int {
	n := 0
	for _, r := range results {
		if r.Outcome == outcome {
			n++
		}
	}
	return n
}

var _ = Describe("Task Service", func() {
	var (
		repo    *mockRepository
		service *Service
		ctx     context.Context
		admin   *auth.User
	)

	BeforeEach(func() {
		repo = newMockRepository()
		service = NewService(repo, nil, slog.Default())
		ctx = context.Background()
		admin = sessionUser("admin-1", "company-1", auth.RoleAdmin)
	})

	Describe("CreateTask", func() {
		It("creates an open task with the actor's company", func() {
			created, err := service.CreateTask(ctx, admin, "proj-1", CreateTaskDTO{Name: "Pour foundation", UnitPrice: 150000})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Status).To(Equal(StatusOpen))
			Expect(created.CompanyID).To(Equal("company-1"))
		})

		It("rejects a client", func() {
			client := sessionUser("client-1", "company-1", auth.RoleClient)
			_, err := service.CreateTask(ctx, client, "proj-1", CreateTaskDTO{Name: "nope"})
			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
		})

		It("rejects a negative unit price", func() {
			_, err := service.CreateTask(ctx, admin, "proj-1", CreateTaskDTO{Name: "t", UnitPrice: -1})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateStatus", func() {
		var created *Task

		BeforeEach(func() {
			var err error
			created, err = service.CreateTask(ctx, admin, "proj-1", CreateTaskDTO{Name: "Roofing", UnitPrice: 75000})
			Expect(err).NotTo(HaveOccurred())
		})

		It("moves a task to in_progress", func() {
			updated, err := service.UpdateStatus(ctx, admin, created.ID, StatusInProgress)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(StatusInProgress))
		})

		It("rejects an unknown status", func() {
			_, err := service.UpdateStatus(ctx, admin, created.ID, Status("paused"))
			Expect(err).To(HaveOccurred())
		})

		It("hides tasks of another company", func() {
			outsider := sessionUser("admin-2", "company-2", auth.RoleAdmin)
			_, err := service.UpdateStatus(ctx, outsider, created.ID, StatusDone)
			Expect(err).To(HaveOccurred())
			Expect(repo.tasks[created.ID].Status).To(Equal(string(StatusOpen)))
		})
	})

	Describe("DeleteTask", func() {
		It("removes the task", func() {
			created, err := service.CreateTask(ctx, admin, "proj-1", CreateTaskDTO{Name: "Cleanup", UnitPrice: 10000})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteTask(ctx, admin, created.ID)).To(Succeed())
			Expect(repo.tasks).NotTo(HaveKey(created.ID))
		})

		It("rejects a client", func() {
			client := sessionUser("client-1", "company-1", auth.RoleClient)
			created, err := service.CreateTask(ctx, admin, "proj-1", CreateTaskDTO{Name: "Cleanup", UnitPrice: 10000})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteTask(ctx, client, created.ID)).To(Equal(internal.ErrUnauthorizedAccess))
		})
	})

	Describe("BulkAssign", func() {
		var taskA, taskB *Task

		BeforeEach(func() {
			var err error
			taskA, err = service.CreateTask(ctx, admin, "proj-1", CreateTaskDTO{Name: "Rebar", UnitPrice: 100000})
			Expect(err).NotTo(HaveOccurred())
			taskB, err = service.CreateTask(ctx, admin, "proj-1", CreateTaskDTO{Name: "Formwork", UnitPrice: 50000})
			Expect(err).NotTo(HaveOccurred())
		})

		It("assigns every (task, staff) pair in the cartesian product", func() {
			results, err := service.BulkAssign(ctx, admin, BulkAssignDTO{
				TaskIDs:      []string{taskA.ID, taskB.ID},
				StaffUserIDs: []string{"staff-1", "staff-2", "staff-3"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(6))
			Expect(countOutcome(results, OutcomeAssigned)).To(Equal(6))
			Expect(repo.assignments).To(HaveLen(6))
		})

		It("computes cost as quantity times unit price", func() {
			results, err := service.BulkAssign(ctx, admin, BulkAssignDTO{
				TaskIDs:      []string{taskA.ID},
				StaffUserIDs: []string{"staff-1"},
				Quantity:     3,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(repo.assignments[results[0].AssignmentID].Cost).To(Equal(int64(300000)))
		})

		It("defaults the quantity to one", func() {
			results, err := service.BulkAssign(ctx, admin, BulkAssignDTO{
				TaskIDs:      []string{taskA.ID},
				StaffUserIDs: []string{"staff-1"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.assignments[results[0].AssignmentID].Quantity).To(Equal(int64(1)))
			Expect(repo.assignments[results[0].AssignmentID].Cost).To(Equal(int64(100000)))
		})

		It("skips pairs that are already assigned without touching them", func() {
			first, err := service.BulkAssign(ctx, admin, BulkAssignDTO{
				TaskIDs:      []string{taskA.ID},
				StaffUserIDs: []string{"staff-1"},
			})
			Expect(err).NotTo(HaveOccurred())

			second, err := service.BulkAssign(ctx, admin, BulkAssignDTO{
				TaskIDs:      []string{taskA.ID, taskB.ID},
				StaffUserIDs: []string{"staff-1"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(HaveLen(2))
			Expect(countOutcome(second, OutcomeSkipped)).To(Equal(1))
			Expect(countOutcome(second, OutcomeAssigned)).To(Equal(1))

			var skipped AssignmentResult
			for _, r := range second {
				if r.Outcome == OutcomeSkipped {
					skipped = r
				}
			}
			Expect(skipped.AssignmentID).To(Equal(first[0].AssignmentID))
			Expect(repo.assignments).To(HaveLen(3))
		})

		It("reports unknown tasks per pair without aborting the batch", func() {
			results, err := service.BulkAssign(ctx, admin, BulkAssignDTO{
				TaskIDs:      []string{"ghost", taskA.ID},
				StaffUserIDs: []string{"staff-1"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(countOutcome(results, OutcomeFailed)).To(Equal(1))
			Expect(countOutcome(results, OutcomeAssigned)).To(Equal(1))
		})

		It("treats another company's task as unknown", func() {
			outsider := sessionUser("admin-2", "company-2", auth.RoleAdmin)
			results, err := service.BulkAssign(ctx, outsider, BulkAssignDTO{
				TaskIDs:      []string{taskA.ID},
				StaffUserIDs: []string{"staff-9"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(countOutcome(results, OutcomeFailed)).To(Equal(1))
		})

		It("publishes a task assigned event per new assignment", func() {
			bus := events.NewEventBus(slog.Default())
			var published []events.Event
			bus.Subscribe(events.EventTypeTaskAssigned, func(_ context.Context, e events.Event) error {
				published = append(published, e)
				return nil
			})
			service = NewService(repo, bus, slog.Default())

			_, err := service.BulkAssign(ctx, admin, BulkAssignDTO{
				TaskIDs:      []string{taskA.ID},
				StaffUserIDs: []string{"staff-1", "staff-2"},
			})
			Expect(err).NotTo(HaveOccurred())
			// Publish fans out on goroutines.
			Eventually(func() int { return len(published) }).Should(Equal(2))
		})
	})

	Describe("CompleteAssignment", func() {
		var assignmentID string

		BeforeEach(func() {
			created, err := service.CreateTask(ctx, admin, "proj-1", CreateTaskDTO{Name: "Rebar", UnitPrice: 100000})
			Expect(err).NotTo(HaveOccurred())
			results, err := service.BulkAssign(ctx, admin, BulkAssignDTO{
				TaskIDs:      []string{created.ID},
				StaffUserIDs: []string{"staff-1"},
			})
			Expect(err).NotTo(HaveOccurred())
			assignmentID = results[0].AssignmentID
		})

		It("lets the assigned staff member complete their own work", func() {
			staff := sessionUser("staff-1", "company-1", auth.RoleStaff)
			completed, err := service.CompleteAssignment(ctx, staff, assignmentID)
			Expect(err).NotTo(HaveOccurred())
			Expect(completed.Status).To(Equal(AssignmentStatusCompleted))
			Expect(completed.CompletedAt).NotTo(BeNil())
		})

		It("lets a manager complete someone else's assignment", func() {
			_, err := service.CompleteAssignment(ctx, admin, assignmentID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("denies an unrelated client", func() {
			client := sessionUser("client-1", "company-1", auth.RoleClient)
			_, err := service.CompleteAssignment(ctx, client, assignmentID)
			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
		})

		It("rejects completing twice", func() {
			_, err := service.CompleteAssignment(ctx, admin, assignmentID)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CompleteAssignment(ctx, admin, assignmentID)
			Expect(err).To(Equal(internal.ErrCannotModifyRecord))
		})
	})
})
