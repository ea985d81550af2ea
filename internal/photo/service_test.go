package photo

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wirabuild/construction-management/internal"
	"github.com/wirabuild/construction-management/internal/auth"
	photoDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/photo"
)

func TestPhoto(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Photo Module Suite")
}

type mockRepository struct {
	records    map[string]*photoDatamodel.Photo
	writeError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{records: make(map[string]*photoDatamodel.Photo)}
}

func (m *mockRepository) CreatePhoto(record *photoDatamodel.Photo) error {
	if m.writeError != nil {
		return m.writeError
	}
	m.records[record.ID] = record
	return nil
}

func (m *mockRepository) GetPhoto(id string) (*photoDatamodel.Photo, error) {
	return m.records[id], nil
}

func (m *mockRepository) ListByProject(projectID string) ([]*photoDatamodel.Photo, error) {
	var out []*photoDatamodel.Photo
	for _, record := range m.records {
		if record.ProjectID == projectID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (m *mockRepository) DeletePhoto(id string) error {
	delete(m.records, id)
	return nil
}

type mockStore struct {
	objects  map[string][]byte
	putError error
}

func newMockStore() *mockStore {
	return &mockStore{objects: make(map[string][]byte)}
}

func (m *mockStore) EnsureBucket(context.Context) error { return nil }

func (m *mockStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if m.putError != nil {
		return m.putError
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *mockStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, errors.New("no such object")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *mockStore) PublicURL(key string) string {
	return "https://cdn.example.com/site-photos/" + key
}

func (m *mockStore) Bucket() string { return "site-photos" }

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

func fileInput(content string) UploadInput {
	return UploadInput{
		Reader:      strings.NewReader(content),
		Size:        int64(len(content)),
		ContentType: "image/jpeg",
	}
}

var _ = Describe("Photo Service", func() {
	var (
		repo    *mockRepository
		store   *mockStore
		service *Service
		ctx     context.Context
		staff   *auth.User
	)

	BeforeEach(func() {
		repo = newMockRepository()
		store = newMockStore()
		service = NewService(repo, store, nil, slog.Default())
		ctx = context.Background()
		staff = sessionUser("staff-1", "company-1", auth.RoleStaff)
	})

	Describe("Upload", func() {
		It("stores the object under a company and project scoped key", func() {
			uploaded, err := service.Upload(ctx, staff, "proj-1", fileInput("jpeg-bytes"))
			Expect(err).NotTo(HaveOccurred())

			expectedKey := "photos/company-1/proj-1/" + uploaded.ID
			Expect(store.objects).To(HaveKey(expectedKey))
			Expect(uploaded.URL).To(ContainSubstring(expectedKey))
			Expect(repo.records).To(HaveKey(uploaded.ID))
		})

		It("rolls the object back when the row write fails", func() {
			repo.writeError = errors.New("constraint violation")
			_, err := service.Upload(ctx, staff, "proj-1", fileInput("jpeg-bytes"))
			Expect(err).To(HaveOccurred())
			Expect(store.objects).To(BeEmpty())
		})

		It("surfaces storage failures", func() {
			store.putError = errors.New("bucket gone")
			_, err := service.Upload(ctx, staff, "proj-1", fileInput("jpeg-bytes"))
			Expect(err).To(HaveOccurred())
			Expect(repo.records).To(BeEmpty())
		})

		It("rejects an empty file", func() {
			_, err := service.Upload(ctx, staff, "proj-1", UploadInput{Size: 0})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("lets the uploader remove their photo, including the stored object", func() {
			uploaded, err := service.Upload(ctx, staff, "proj-1", fileInput("jpeg-bytes"))
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, staff, uploaded.ID)).To(Succeed())
			Expect(repo.records).To(BeEmpty())
			Expect(store.objects).To(BeEmpty())
		})

		It("denies an unrelated client", func() {
			uploaded, err := service.Upload(ctx, staff, "proj-1", fileInput("jpeg-bytes"))
			Expect(err).NotTo(HaveOccurred())

			client := sessionUser("client-1", "company-1", auth.RoleClient)
			Expect(service.Delete(ctx, client, uploaded.ID)).To(Equal(internal.ErrUnauthorizedAccess))
		})

		It("lets a manager remove someone else's photo", func() {
			uploaded, err := service.Upload(ctx, staff, "proj-1", fileInput("jpeg-bytes"))
			Expect(err).NotTo(HaveOccurred())

			admin := sessionUser("admin-1", "company-1", auth.RoleAdmin)
			Expect(service.Delete(ctx, admin, uploaded.ID)).To(Succeed())
		})
	})

	Describe("GroupByMonth", func() {
		at := func(year int, month time.Month, day int) time.Time {
			return time.Date(year, month, day, 10, 0, 0, 0, time.UTC)
		}

		It("buckets photos by YYYY-MM, newest bucket first", func() {
			photos := []*Photo{
				{ID: "c", TakenAt: at(2026, 8, 20)},
				{ID: "b", TakenAt: at(2026, 8, 2)},
				{ID: "a", TakenAt: at(2026, 7, 30)},
				{ID: "z", TakenAt: at(2025, 12, 1)},
			}

			groups := GroupByMonth(photos)
			Expect(groups).To(HaveLen(3))
			Expect(groups[0].Month).To(Equal("2026-08"))
			Expect(groups[1].Month).To(Equal("2026-07"))
			Expect(groups[2].Month).To(Equal("2025-12"))

			Expect(groups[0].Photos).To(HaveLen(2))
			Expect(groups[0].Photos[0].ID).To(Equal("c"))
			Expect(groups[0].Photos[1].ID).To(Equal("b"))
		})

		It("returns no groups for no photos", func() {
			Expect(GroupByMonth(nil)).To(BeEmpty())
		})

		It("keeps December and January of adjacent years apart", func() {
			photos := []*Photo{
				{ID: "jan", TakenAt: at(2026, 1, 5)},
				{ID: "dec", TakenAt: at(2025, 12, 28)},
			}
			groups := GroupByMonth(photos)
			Expect(groups).To(HaveLen(2))
			Expect(groups[0].Month).To(Equal("2026-01"))
			Expect(groups[1].Month).To(Equal("2025-12"))
		})
	})
})
