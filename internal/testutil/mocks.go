// Package testutil provides in-memory repository mocks for service tests.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/lcouture/pennywise/pennywise-backend/internal/domain"
)

// MockBudgetRepository is an in-memory implementation of
// domain.BudgetRepository.
type MockBudgetRepository struct {
	mu      sync.Mutex
	budgets map[uuid.UUID]*domain.Budget

	// Optional overrides
	CreateFn func(ctx context.Context, budget *domain.Budget) (*domain.Budget, error)
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{budgets: make(map[uuid.UUID]*domain.Budget)}
}

// AddBudget seeds a budget, assigning an ID if absent
func (m *MockBudgetRepository) AddBudget(budget *domain.Budget) *domain.Budget {
	m.mu.Lock()
	defer m.mu.Unlock()
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	m.budgets[budget.ID] = budget
	return budget
}

// Create creates a budget
func (m *MockBudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, budget)
	}
	return m.AddBudget(budget), nil
}

// GetByID retrieves a budget by ID for a user
func (m *MockBudgetRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	budget, ok := m.budgets[id]
	if !ok || budget.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	return budget, nil
}

// GetByName retrieves a budget by name for a user
func (m *MockBudgetRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, budget := range m.budgets {
		if budget.UserID == userID && budget.Name == name {
			return budget, nil
		}
	}
	return nil, domain.ErrBudgetNotFound
}

// ListByUser retrieves all budgets for a user, ordered by name
func (m *MockBudgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var budgets []*domain.Budget
	for _, budget := range m.budgets {
		if budget.UserID == userID {
			budgets = append(budgets, budget)
		}
	}
	sortBudgets(budgets)
	return budgets, nil
}

// Children retrieves a budget's direct children, ordered by name
func (m *MockBudgetRepository) Children(ctx context.Context, budgetID uuid.UUID) ([]*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var children []*domain.Budget
	for _, budget := range m.budgets {
		if budget.ParentID != nil && *budget.ParentID == budgetID {
			children = append(children, budget)
		}
	}
	sortBudgets(children)
	return children, nil
}

// Descendants retrieves the transitive closure of children under a budget
func (m *MockBudgetRepository) Descendants(ctx context.Context, budgetID uuid.UUID) ([]*domain.Budget, error) {
	direct, err := m.Children(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	all := append([]*domain.Budget{}, direct...)
	for _, child := range direct {
		below, err := m.Descendants(ctx, child.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, below...)
	}
	sortBudgets(all)
	return all, nil
}

func sortBudgets(budgets []*domain.Budget) {
	sort.Slice(budgets, func(i, j int) bool { return budgets[i].Name < budgets[j].Name })
}

// MockTagRepository is an in-memory implementation of domain.TagRepository
type MockTagRepository struct {
	mu   sync.Mutex
	tags map[uuid.UUID]*domain.Tag
}

// NewMockTagRepository creates a new MockTagRepository
func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{tags: make(map[uuid.UUID]*domain.Tag)}
}

// AddTag seeds a tag, assigning an ID if absent
func (m *MockTagRepository) AddTag(tag *domain.Tag) *domain.Tag {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	m.tags[tag.ID] = tag
	return tag
}

// Create creates a tag
func (m *MockTagRepository) Create(ctx context.Context, tag *domain.Tag) (*domain.Tag, error) {
	return m.AddTag(tag), nil
}

// GetByID retrieves a tag by ID for a user
func (m *MockTagRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tag, ok := m.tags[id]
	if !ok || tag.UserID != userID {
		return nil, domain.ErrTagNotFound
	}
	return tag, nil
}

// GetByName retrieves a tag by name for a user
func (m *MockTagRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tag := range m.tags {
		if tag.UserID == userID && tag.Name == name {
			return tag, nil
		}
	}
	return nil, domain.ErrTagNotFound
}

// GetOrCreate retrieves the user's tag by name, creating it if absent
func (m *MockTagRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error) {
	if tag, err := m.GetByName(ctx, userID, name); err == nil {
		return tag, nil
	}
	return m.AddTag(&domain.Tag{UserID: userID, Name: name}), nil
}

// ListByUser retrieves all tags for a user, ordered by name
func (m *MockTagRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var tags []*domain.Tag
	for _, tag := range m.tags {
		if tag.UserID == userID {
			tags = append(tags, tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

// MockTransactionRepository is an in-memory implementation of
// domain.TransactionRepository. It needs the budget repository to resolve
// user scope the way the database join does.
type MockTransactionRepository struct {
	mu           sync.Mutex
	transactions []*domain.Transaction
	budgets      *MockBudgetRepository

	// Optional overrides
	ReplacePredictionsFn func(ctx context.Context, userID uuid.UUID, transactions []*domain.Transaction) ([]*domain.Transaction, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository(budgets *MockBudgetRepository) *MockTransactionRepository {
	return &MockTransactionRepository{budgets: budgets}
}

// AddTransaction seeds a transaction, assigning an ID if absent
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) *domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	m.transactions = append(m.transactions, transaction)
	return transaction
}

// Create creates a transaction
func (m *MockTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	return m.AddTransaction(transaction), nil
}

// ListByUser retrieves the user's transactions matching filter, ordered by
// date.
func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter *domain.TransactionFilter) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*domain.Transaction
	for _, transaction := range m.transactions {
		if m.owns(userID, transaction) && matches(transaction, filter) {
			matched = append(matched, transaction)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })
	return matched, nil
}

// SumByUser sums the amounts of the user's transactions matching filter
func (m *MockTransactionRepository) SumByUser(ctx context.Context, userID uuid.UUID, filter *domain.TransactionFilter) (int64, error) {
	transactions, err := m.ListByUser(ctx, userID, filter)
	if err != nil {
		return 0, err
	}
	var sum int64
	for _, transaction := range transactions {
		sum += transaction.Amount
	}
	return sum, nil
}

// CountByUser counts the user's transactions matching filter
func (m *MockTransactionRepository) CountByUser(ctx context.Context, userID uuid.UUID, filter *domain.TransactionFilter) (int64, error) {
	transactions, err := m.ListByUser(ctx, userID, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(transactions)), nil
}

// ReplacePredictions deletes the user's prediction rows and inserts the given
// batch.
func (m *MockTransactionRepository) ReplacePredictions(ctx context.Context, userID uuid.UUID, transactions []*domain.Transaction) ([]*domain.Transaction, error) {
	if m.ReplacePredictionsFn != nil {
		return m.ReplacePredictionsFn(ctx, userID, transactions)
	}

	m.mu.Lock()
	kept := m.transactions[:0]
	for _, transaction := range m.transactions {
		if transaction.Prediction && m.owns(userID, transaction) {
			continue
		}
		kept = append(kept, transaction)
	}
	m.transactions = kept
	m.mu.Unlock()

	created := make([]*domain.Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		created = append(created, m.AddTransaction(transaction))
	}
	return created, nil
}

func (m *MockTransactionRepository) owns(userID uuid.UUID, transaction *domain.Transaction) bool {
	budget, ok := m.budgets.budgets[transaction.BudgetID]
	return ok && budget.UserID == userID
}

func matches(transaction *domain.Transaction, filter *domain.TransactionFilter) bool {
	if filter == nil {
		return true
	}
	if filter.StartDate != nil && transaction.Date.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && transaction.Date.After(*filter.EndDate) {
		return false
	}
	if filter.BudgetID != nil && transaction.BudgetID != *filter.BudgetID {
		return false
	}
	if filter.TagID != nil {
		found := false
		for _, tagID := range transaction.TagIDs {
			if tagID == *filter.TagID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Income != nil && transaction.Income != *filter.Income {
		return false
	}
	if filter.Transfer != nil && transaction.Transfer != *filter.Transfer {
		return false
	}
	if filter.Prediction != nil && transaction.Prediction != *filter.Prediction {
		return false
	}
	return true
}

// MockUserSettingsRepository is an in-memory implementation of
// domain.UserSettingsRepository.
type MockUserSettingsRepository struct {
	mu       sync.Mutex
	settings map[uuid.UUID]*domain.UserSettings
}

// NewMockUserSettingsRepository creates a new MockUserSettingsRepository
func NewMockUserSettingsRepository() *MockUserSettingsRepository {
	return &MockUserSettingsRepository{settings: make(map[uuid.UUID]*domain.UserSettings)}
}

// AddSettings seeds a settings row
func (m *MockUserSettingsRepository) AddSettings(settings *domain.UserSettings) *domain.UserSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[settings.UserID] = settings
	return settings
}

// Get retrieves the settings row for a user
func (m *MockUserSettingsRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	settings, ok := m.settings[userID]
	if !ok {
		return nil, domain.ErrSettingsNotFound
	}
	return settings, nil
}

// Upsert inserts or replaces the settings row for a user
func (m *MockUserSettingsRepository) Upsert(ctx context.Context, settings *domain.UserSettings) (*domain.UserSettings, error) {
	return m.AddSettings(settings), nil
}

// ListAll retrieves every user's settings row
func (m *MockUserSettingsRepository) ListAll(ctx context.Context) ([]*domain.UserSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*domain.UserSettings
	for _, settings := range m.settings {
		all = append(all, settings)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID.String() < all[j].UserID.String() })
	return all, nil
}
