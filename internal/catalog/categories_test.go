package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FlexEdwin/toolfinder-app/internal/apperr"
)

type MockCategoryAPI struct {
	mock.Mock
}

func (m *MockCategoryAPI) DistinctCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCategoryAPI) RenameCategory(ctx context.Context, oldName, newName string) error {
	return m.Called(ctx, oldName, newName).Error(0)
}

func (m *MockCategoryAPI) DeleteCategory(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate() { f.calls++ }

func TestCategories_ListLeadsWithSentinel(t *testing.T) {
	remote := new(MockCategoryAPI)
	remote.On("DistinctCategories", mock.Anything).Return([]string{"Cutting", "Measurement"}, nil)

	c := NewCategories(remote, &fakeInvalidator{}, time.Hour, zap.NewNop())

	values, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{SentinelAll, "Cutting", "Measurement"}, values)
}

func TestCategories_ListServesCacheUntilInvalidated(t *testing.T) {
	remote := new(MockCategoryAPI)
	remote.On("DistinctCategories", mock.Anything).Return([]string{"Cutting"}, nil).Once()
	remote.On("DistinctCategories", mock.Anything).Return([]string{"Cutting", "Welding"}, nil).Once()

	c := NewCategories(remote, &fakeInvalidator{}, time.Hour, zap.NewNop())

	values, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{SentinelAll, "Cutting"}, values)

	values, err = c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{SentinelAll, "Cutting"}, values)
	remote.AssertNumberOfCalls(t, "DistinctCategories", 1)

	// A tool with a new category was created elsewhere; the next list
	// reflects it only after invalidation
	c.Invalidate()

	values, err = c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{SentinelAll, "Cutting", "Welding"}, values)
}

func TestCategories_EmptyListStillHasSentinel(t *testing.T) {
	remote := new(MockCategoryAPI)
	remote.On("DistinctCategories", mock.Anything).Return([]string{}, nil)

	c := NewCategories(remote, &fakeInvalidator{}, time.Hour, zap.NewNop())

	values, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{SentinelAll}, values)
}

func TestCategories_RenameInvalidatesBothCaches(t *testing.T) {
	remote := new(MockCategoryAPI)
	remote.On("DistinctCategories", mock.Anything).Return([]string{"Cuting"}, nil).Once()
	remote.On("RenameCategory", mock.Anything, "Cuting", "Cutting").Return(nil)
	remote.On("DistinctCategories", mock.Anything).Return([]string{"Cutting"}, nil).Once()

	tools := &fakeInvalidator{}
	c := NewCategories(remote, tools, time.Hour, zap.NewNop())

	_, err := c.List(context.Background())
	require.NoError(t, err)

	require.NoError(t, c.Rename(context.Background(), "Cuting", "Cutting"))
	assert.Equal(t, 1, tools.calls)

	values, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{SentinelAll, "Cutting"}, values)
}

func TestCategories_RenameValidation(t *testing.T) {
	tests := []struct {
		name    string
		oldName string
		newName string
	}{
		{name: "empty old name", oldName: "", newName: "Cutting"},
		{name: "empty new name", oldName: "Cutting", newName: "  "},
		{name: "sentinel as old name", oldName: SentinelAll, newName: "Cutting"},
		{name: "sentinel as new name", oldName: "Cutting", newName: SentinelAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := new(MockCategoryAPI)
			c := NewCategories(remote, &fakeInvalidator{}, time.Hour, zap.NewNop())

			err := c.Rename(context.Background(), tt.oldName, tt.newName)
			assert.True(t, apperr.IsValidation(err))
			remote.AssertNotCalled(t, "RenameCategory")
		})
	}
}

func TestCategories_RenameToSameNameIsNoOp(t *testing.T) {
	remote := new(MockCategoryAPI)
	tools := &fakeInvalidator{}
	c := NewCategories(remote, tools, time.Hour, zap.NewNop())

	require.NoError(t, c.Rename(context.Background(), "Cutting", "Cutting"))
	remote.AssertNotCalled(t, "RenameCategory")
	assert.Zero(t, tools.calls)
}

func TestCategories_RenameFailureSkipsInvalidation(t *testing.T) {
	remote := new(MockCategoryAPI)
	remote.On("RenameCategory", mock.Anything, "Cutting", "Milling").Return(apperr.Transientf("service down"))

	tools := &fakeInvalidator{}
	c := NewCategories(remote, tools, time.Hour, zap.NewNop())

	err := c.Rename(context.Background(), "Cutting", "Milling")
	assert.True(t, apperr.IsTransient(err))
	assert.Zero(t, tools.calls)
}

func TestCategories_DeleteInvalidatesBothCaches(t *testing.T) {
	remote := new(MockCategoryAPI)
	remote.On("DeleteCategory", mock.Anything, "Obsolete").Return(nil)

	tools := &fakeInvalidator{}
	c := NewCategories(remote, tools, time.Hour, zap.NewNop())

	require.NoError(t, c.Delete(context.Background(), "Obsolete"))
	assert.Equal(t, 1, tools.calls)
}

func TestCategories_DeleteValidation(t *testing.T) {
	remote := new(MockCategoryAPI)
	c := NewCategories(remote, &fakeInvalidator{}, time.Hour, zap.NewNop())

	assert.True(t, apperr.IsValidation(c.Delete(context.Background(), "")))
	assert.True(t, apperr.IsValidation(c.Delete(context.Background(), SentinelAll)))
	remote.AssertNotCalled(t, "DeleteCategory")
}
