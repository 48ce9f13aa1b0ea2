package tenant

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/wealthwise/internal/models"
)

func TestBeginAnonymous(t *testing.T) {
	ctx, scope := Begin(context.Background(), nil, &models.Group{ID: "g1"})
	defer scope.End()

	assert.Nil(t, CurrentUser(ctx))
	assert.Nil(t, CurrentGroup(ctx), "anonymous scope must not carry a group")
}

func TestBeginWithGroup(t *testing.T) {
	user := &models.User{ID: "u1", GroupID: "g1", Role: models.RoleEditor}
	group := &models.Group{ID: "g1", Name: "Home"}

	ctx, scope := Begin(context.Background(), user, group)
	defer scope.End()

	require.NotNil(t, CurrentUser(ctx))
	assert.Equal(t, "u1", CurrentUser(ctx).ID)
	require.NotNil(t, CurrentGroup(ctx))
	assert.Equal(t, "Home", CurrentGroup(ctx).Name)
	assert.Equal(t, "u1", UserID(ctx))
}

func TestBeginIgnoresForeignGroup(t *testing.T) {
	user := &models.User{ID: "u1", GroupID: "g1"}
	ctx, scope := Begin(context.Background(), user, &models.Group{ID: "g2"})
	defer scope.End()

	assert.NotNil(t, CurrentUser(ctx))
	assert.Nil(t, CurrentGroup(ctx))
}

func TestBeginGrouplessUser(t *testing.T) {
	user := &models.User{ID: "u1"}
	ctx, scope := Begin(context.Background(), user, &models.Group{ID: "g1"})
	defer scope.End()

	assert.NotNil(t, CurrentUser(ctx))
	assert.Nil(t, CurrentGroup(ctx))
}

func TestEndClearsScope(t *testing.T) {
	user := &models.User{ID: "u1", GroupID: "g1"}
	ctx, scope := Begin(context.Background(), user, &models.Group{ID: "g1"})

	scope.End()
	scope.End()

	assert.True(t, scope.Ended())
	assert.Nil(t, CurrentUser(ctx))
	assert.Nil(t, CurrentGroup(ctx))
	assert.Equal(t, "", UserID(ctx))
}

func TestAccessorsReturnCopies(t *testing.T) {
	user := &models.User{ID: "u1", GroupID: "g1", Role: models.RoleViewer}
	ctx, scope := Begin(context.Background(), user, &models.Group{ID: "g1"})
	defer scope.End()

	user.Role = models.RoleAdmin
	CurrentUser(ctx).Role = models.RoleAdmin

	assert.Equal(t, models.RoleViewer, CurrentUser(ctx).Role)
}

func TestNoScope(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, FromContext(ctx))
	assert.Nil(t, CurrentUser(ctx))
	assert.Nil(t, CurrentGroup(ctx))
	assert.True(t, FromContext(ctx).Ended())
}

func TestConcurrentScopesAreIsolated(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			groupID := "g1"
			if i%2 == 1 {
				groupID = "g2"
			}
			user := &models.User{ID: "u", GroupID: groupID}
			ctx, scope := Begin(context.Background(), user, &models.Group{ID: groupID})
			defer scope.End()

			for j := 0; j < 100; j++ {
				if g := CurrentGroup(ctx); g == nil || g.ID != groupID {
					t.Errorf("scope leaked: want %s, got %v", groupID, g)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}
