package services

import (
	"context"
	"sync"

	"github.com/yukikurage/sitewalk-tasks/internal/models"

	"github.com/yukikurage/sitewalk-tasks/internal/mailer"
	"github.com/yukikurage/sitewalk-tasks/internal/repository"
	"github.com/yukikurage/sitewalk-tasks/internal/sheets"
)

// fakeMailer records messages and accepts every recipient unless told otherwise.
type fakeMailer struct {
	mu     sync.Mutex
	sent   []mailer.Message
	reject map[string]bool
	err    error
}

func (m *fakeMailer) Send(ctx context.Context, msg mailer.Message) (*mailer.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, msg)

	receipt := &mailer.Receipt{Rejected: map[string]string{}}
	for _, to := range msg.To {
		if m.reject[to] {
			receipt.Rejected[to] = "550 no such user"
			continue
		}
		receipt.Accepted = append(receipt.Accepted, to)
	}
	return receipt, nil
}

func (m *fakeMailer) messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

type testStore struct {
	backend        *sheets.MemoryBackend
	taskRepo       *repository.SheetsTaskRepository
	contractorRepo *repository.SheetsContractorRepository
}

func newTestStore() *testStore {
	backend := sheets.NewMemoryBackend()
	tabs := repository.NewTabProvisioner(backend)
	return &testStore{
		backend:        backend,
		taskRepo:       repository.NewTaskRepository(backend, tabs),
		contractorRepo: repository.NewContractorRepository(backend, tabs),
	}
}

// createClosedTask stores a task and then closes it, the only way a task
// reaches Closed.
func createClosedTask(ctx context.Context, s *TaskService, input CreateTaskInput) error {
	created, err := s.ProcessTaskInput(ctx, input)
	if err != nil {
		return err
	}
	status := string(models.TaskStatusClosed)
	_, _, err = s.UpdateTask(ctx, UpdateTaskInput{TaskID: created.Task.TaskID, Status: &status})
	return err
}
