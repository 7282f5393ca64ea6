package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlexEdwin/toolfinder-app/internal/model"
)

func TestClient_KitsWithLikesPassesSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/rpc/get_kits_with_likes", r.URL.Path)

		var params map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, "session-1", params["user_session_id"])

		w.Write([]byte(`[{"id":"k1","name":"Starter kit","likes_count":2,"is_liked_by_user":true}]`))
	})

	kits, err := client.KitsWithLikes(context.Background(), "session-1")
	require.NoError(t, err)
	require.Len(t, kits, 1)
	assert.Equal(t, 2, kits[0].LikesCount)
	assert.True(t, kits[0].IsLikedByUser)
}

func TestClient_ListKitsWithItemsNestsSelect(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/kits", r.URL.Path)
		assert.Equal(t, "*,kit_items(tool_id,tools(name,part_number,category))", r.URL.Query().Get("select"))
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))

		w.Write([]byte(`[{"id":"k1","name":"Starter kit","kit_items":[{"tool_id":"t1","tools":{"name":"Torque Wrench","part_number":"PN-001"}}]}]`))
	})

	kits, err := client.ListKitsWithItems(context.Background())
	require.NoError(t, err)
	require.Len(t, kits, 1)
	require.Len(t, kits[0].Items, 1)
	assert.Equal(t, "t1", kits[0].Items[0].ToolID)
	require.NotNil(t, kits[0].Items[0].Tool)
	assert.Equal(t, "PN-001", kits[0].Items[0].Tool.PartNumber)
}

func TestClient_InsertKitItemsBulkPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/kit_items", r.URL.Path)
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))

		var rows []map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rows))
		require.Len(t, rows, 2)
		assert.Equal(t, "k1", rows[0]["kit_id"])
		assert.Equal(t, "t1", rows[0]["tool_id"])
		assert.Equal(t, "t2", rows[1]["tool_id"])

		w.WriteHeader(http.StatusCreated)
	})

	err := client.InsertKitItems(context.Background(), []model.KitItem{
		{KitID: "k1", ToolID: "t1"},
		{KitID: "k1", ToolID: "t2"},
	})
	require.NoError(t, err)
}

func TestClient_DeleteKitLikeFiltersBothKeys(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/rest/v1/kit_likes", r.URL.Path)
		assert.Equal(t, "eq.k1", r.URL.Query().Get("kit_id"))
		assert.Equal(t, "eq.session-1", r.URL.Query().Get("session_id"))
	})

	require.NoError(t, client.DeleteKitLike(context.Background(), "k1", "session-1"))
}

func TestClient_CreateKitReturnsGeneratedID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"k1","name":"Starter kit","author_name":"pat"}]`))
	})

	kit, err := client.CreateKit(context.Background(), "Starter kit", "pat")
	require.NoError(t, err)
	assert.Equal(t, "k1", kit.ID)
	assert.Equal(t, "pat", kit.AuthorName)
}
