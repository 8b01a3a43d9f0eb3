package services

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/apiserver/internal/store"
	"github.com/taskdeck/apiserver/types"
)

type stubTaskRepository struct {
	tasks map[uuid.UUID]types.Task
}

func newStubTaskRepository() *stubTaskRepository {
	return &stubTaskRepository{tasks: make(map[uuid.UUID]types.Task)}
}

func (s *stubTaskRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]types.Task, error) {
	out := make([]types.Task, 0)
	for _, task := range s.tasks {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *stubTaskRepository) Get(ctx context.Context, userID, id uuid.UUID) (types.Task, error) {
	task, ok := s.tasks[id]
	if !ok || task.UserID != userID {
		return types.Task{}, store.ErrNotFound
	}
	return task, nil
}

func (s *stubTaskRepository) Create(ctx context.Context, task types.Task) (types.Task, error) {
	task.ID = uuid.New()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	task.UpdatedAt = time.Now()
	s.tasks[task.ID] = task
	return task, nil
}

func (s *stubTaskRepository) Update(ctx context.Context, task types.Task) (types.Task, error) {
	stored, ok := s.tasks[task.ID]
	if !ok || stored.UserID != task.UserID {
		return types.Task{}, store.ErrNotFound
	}
	task.UpdatedAt = time.Now()
	s.tasks[task.ID] = task
	return task, nil
}

func (s *stubTaskRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	task, ok := s.tasks[id]
	if !ok || task.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func TestCreateDefaultsPriorityToLow(t *testing.T) {
	svc := NewTaskService(newStubTaskRepository())
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, types.Task{Title: "buy milk"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Priority != types.PriorityLow {
		t.Fatalf("priority = %q, want Low", created.Priority)
	}
	if created.UserID != owner {
		t.Fatalf("owner = %s, want %s", created.UserID, owner)
	}
	if created.Completed {
		t.Fatalf("new task must start incomplete")
	}

	high, err := svc.Create(context.Background(), owner, types.Task{Title: "file taxes", Priority: types.PriorityHigh})
	if err != nil {
		t.Fatalf("create high: %v", err)
	}
	if high.Priority != types.PriorityHigh {
		t.Fatalf("priority = %q, want High", high.Priority)
	}
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	svc := NewTaskService(newStubTaskRepository())

	for _, title := range []string{"", "   ", "\t"} {
		_, err := svc.Create(context.Background(), uuid.New(), types.Task{Title: title})
		if !IsValidation(err) {
			t.Fatalf("title %q: expected validation error, got %v", title, err)
		}
	}
}

func TestCreateHonorsProposedCreatedAt(t *testing.T) {
	svc := NewTaskService(newStubTaskRepository())
	proposed := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	created, err := svc.Create(context.Background(), uuid.New(), types.Task{Title: "backdated", CreatedAt: proposed})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.CreatedAt.Equal(proposed) {
		t.Fatalf("createdAt = %v, want %v", created.CreatedAt, proposed)
	}
}

func TestListReturnsNewestFirst(t *testing.T) {
	svc := NewTaskService(newStubTaskRepository())
	owner := uuid.New()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		_, err := svc.Create(context.Background(), owner, types.Task{
			Title:     title,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("create %q: %v", title, err)
		}
	}

	tasks, err := svc.List(context.Background(), owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("len = %d, want 3", len(tasks))
	}
	want := []string{"third", "second", "first"}
	for i, title := range want {
		if tasks[i].Title != title {
			t.Fatalf("tasks[%d] = %q, want %q", i, tasks[i].Title, title)
		}
	}
}

func TestOwnershipIsolation(t *testing.T) {
	svc := NewTaskService(newStubTaskRepository())
	alice := uuid.New()
	bob := uuid.New()

	// Overlapping titles on purpose: scoping must rely on the owner id,
	// not on anything in the task content.
	aliceTask, err := svc.Create(context.Background(), alice, types.Task{Title: "buy milk"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), bob, types.Task{Title: "buy milk"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	bobView, err := svc.List(context.Background(), bob)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, task := range bobView {
		if task.ID == aliceTask.ID {
			t.Fatalf("bob can see alice's task")
		}
	}

	completed := true
	if _, err := svc.Update(context.Background(), bob, aliceTask.ID, types.TaskPatch{Completed: &completed}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update of foreign task: got %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), bob, aliceTask.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("delete of foreign task: got %v, want ErrNotFound", err)
	}

	// Alice is unaffected by bob's attempts.
	got, err := svc.List(context.Background(), alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Completed {
		t.Fatalf("alice's task was observed or mutated by a non-owner: %+v", got)
	}
}

func TestUpdateWithEmptyPatchIsIdempotent(t *testing.T) {
	repo := newStubTaskRepository()
	svc := NewTaskService(repo)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, types.Task{Title: "unchanged", Priority: types.PriorityHigh})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), owner, created.ID, types.TaskPatch{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != created.Title || updated.Priority != created.Priority ||
		updated.Completed != created.Completed || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("empty patch changed the task: %+v vs %+v", updated, created)
	}
}

func TestCompletionToggleKeepsPriority(t *testing.T) {
	svc := NewTaskService(newStubTaskRepository())
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, types.Task{Title: "urgent", Priority: types.PriorityHigh})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	completed := true
	updated, err := svc.Update(context.Background(), owner, created.ID, types.TaskPatch{Completed: &completed})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Completed {
		t.Fatalf("task not completed")
	}
	if updated.Priority != types.PriorityHigh {
		t.Fatalf("toggling completion reset priority to %q", updated.Priority)
	}
}

func TestUpdateValidatesPatchFields(t *testing.T) {
	svc := NewTaskService(newStubTaskRepository())
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, types.Task{Title: "ok"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	blank := "   "
	if _, err := svc.Update(context.Background(), owner, created.ID, types.TaskPatch{Title: &blank}); !IsValidation(err) {
		t.Fatalf("blank title patch: expected validation error, got %v", err)
	}

	bogus := types.Priority("Urgent")
	if _, err := svc.Update(context.Background(), owner, created.ID, types.TaskPatch{Priority: &bogus}); !IsValidation(err) {
		t.Fatalf("bogus priority patch: expected validation error, got %v", err)
	}
}

func TestDeleteMissingTaskIsNotFound(t *testing.T) {
	svc := NewTaskService(newStubTaskRepository())

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
