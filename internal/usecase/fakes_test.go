package usecase

import (
	"context"
	"strings"
	"sync"

	"contract-workspace/internal/document"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/domain/errs"
	"contract-workspace/internal/envelope"
	"contract-workspace/internal/infrastructure/session"
	"contract-workspace/internal/infrastructure/storage"
)

type fakeContracts struct {
	mu        sync.Mutex
	contracts map[string]*entity.Contract
	created   []*entity.CreateContractRequest
}

func newFakeContracts(contracts ...*entity.Contract) *fakeContracts {
	f := &fakeContracts{contracts: map[string]*entity.Contract{}}
	for _, c := range contracts {
		f.contracts[c.ID] = c
	}
	return f
}

func (f *fakeContracts) List(ctx context.Context, sess *session.Session) ([]entity.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Contract, 0, len(f.contracts))
	for _, c := range f.contracts {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeContracts) Get(ctx context.Context, sess *session.Session, id string) (*entity.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contracts[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeContracts) Create(ctx context.Context, sess *session.Session, req *entity.CreateContractRequest) (*entity.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	c := &entity.Contract{ID: "new", Title: req.Title, Stage: req.Stage, FilePath: req.FilePath}
	f.contracts[c.ID] = c
	return c, nil
}

func (f *fakeContracts) Update(ctx context.Context, sess *session.Session, id string, req *entity.UpdateContractRequest) (*entity.Contract, error) {
	return f.Get(ctx, sess, id)
}

func (f *fakeContracts) Delete(ctx context.Context, sess *session.Session, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.contracts, id)
	return nil
}

func (f *fakeContracts) CreateCounterparty(ctx context.Context, sess *session.Session, req *entity.CreateCounterpartyRequest) (*entity.Counterparty, error) {
	return &entity.Counterparty{PartyName: req.PartyName, Email: req.Email, Contract: req.Contract}, nil
}

func (f *fakeContracts) setStage(id, stage string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contracts[id].Stage = stage
}

type fakeEsign struct {
	sent   []*envelope.Submission
	onSend func(*envelope.Submission)
}

func (f *fakeEsign) Send(ctx context.Context, sess *session.Session, s *envelope.Submission) error {
	f.sent = append(f.sent, s)
	if f.onSend != nil {
		f.onSend(s)
	}
	return nil
}

func (f *fakeEsign) RegisterSender(ctx context.Context, sess *session.Session) (*entity.SenderStatus, error) {
	return &entity.SenderStatus{Status: "pending_verification"}, nil
}

type fakeLocator struct {
	downloads    int
	uploads      []string
	contentTypes []string
	key          string
}

func (f *fakeLocator) DownloadURL(ctx context.Context, sess *session.Session, path string) (string, error) {
	if sess == nil {
		return "", errs.ErrAuth
	}
	f.downloads++
	return "https://storage.example/" + path, nil
}

func (f *fakeLocator) UploadTarget(ctx context.Context, sess *session.Session, path, contentType string) (*storage.UploadTarget, error) {
	f.uploads = append(f.uploads, path)
	f.contentTypes = append(f.contentTypes, contentType)
	return &storage.UploadTarget{URL: "https://storage.example/", Fields: map[string]string{"key": f.key}}, nil
}

type fakeUploader struct {
	files []*entity.FileUpload
}

func (f *fakeUploader) Upload(ctx context.Context, target *storage.UploadTarget, file *entity.FileUpload) error {
	f.files = append(f.files, file)
	return nil
}

type fakeFetcher struct {
	content *document.Content
	calls   int
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*document.Content, error) {
	f.calls++
	return f.content, nil
}

type fakeAccounts struct {
	calls int
	org   *entity.OrganizationDomain
	err   error
}

func (f *fakeAccounts) Profile(ctx context.Context, sess *session.Session) (*entity.Profile, error) {
	return &entity.Profile{Email: sess.Email}, nil
}

func (f *fakeAccounts) CheckDomain(ctx context.Context, domain string) (*entity.OrganizationDomain, error) {
	f.calls++
	return f.org, f.err
}

// fakeAPILogs filters like the SQL queries do
type fakeAPILogs struct {
	logs []entity.APILog
}

func (f *fakeAPILogs) Save(ctx context.Context, log *entity.APILog) error {
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeAPILogs) List(ctx context.Context, email string, limit int) ([]entity.APILog, error) {
	return f.SearchByEndpoint(ctx, email, "", limit)
}

func (f *fakeAPILogs) SearchByEndpoint(ctx context.Context, email, fragment string, limit int) ([]entity.APILog, error) {
	out := []entity.APILog{}
	for _, l := range f.logs {
		if l.Email == email && strings.Contains(l.Endpoint, fragment) && len(out) < limit {
			out = append(out, l)
		}
	}
	return out, nil
}
