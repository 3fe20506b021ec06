package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpdate_Empty(t *testing.T) {
	assert.True(t, NewUpdate().Empty())
	assert.False(t, NewUpdate().Unset("personal_calendar").Empty())
}

func TestUpdate_Document(t *testing.T) {
	id := primitive.NewObjectID()

	doc := NewUpdate().
		Set("name", "K").
		AddToSet("calendars", id).
		Pull("pending_calendars", id).
		Push("pending_users", bson.M{"user_id": id, "type": "authorized"}).
		Unset("personal_calendar").
		Document()

	assert.Equal(t, bson.M{"name": "K"}, doc["$set"])
	assert.Equal(t, bson.M{"calendars": id}, doc["$addToSet"])
	assert.Equal(t, bson.M{"pending_calendars": id}, doc["$pull"])
	assert.Equal(t, bson.M{"personal_calendar": ""}, doc["$unset"])
	assert.Contains(t, doc, "$push")
}

func TestUpdate_DocumentOmitsUnusedOperators(t *testing.T) {
	doc := NewUpdate().Set("a", 1).Document()

	assert.Len(t, doc, 1)
	assert.NotContains(t, doc, "$pull")
}

func TestUpdate_SetMatched(t *testing.T) {
	id := primitive.NewObjectID()

	u := NewUpdate().
		SetMatched("user_color_preferences.calendars", "object_id", id, "background_color", "#111").
		SetMatched("user_color_preferences.calendars", "object_id", id, "font_color", "#fff")

	set := u.Document()["$set"].(bson.M)
	assert.Equal(t, "#111", set["user_color_preferences.calendars.$[e0].background_color"])
	assert.Equal(t, "#fff", set["user_color_preferences.calendars.$[e1].font_color"])

	filters := u.ArrayFilters()
	assert.Len(t, filters, 2)
	assert.Equal(t, bson.M{"e0.object_id": id}, filters[0])
	assert.Equal(t, bson.M{"e1.object_id": id}, filters[1])
}
