package database

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Update builds a single-document mutation. Operators are merged per field so
// one UpdateOne call can set, push and pull in the same atomic write.
type Update struct {
	set          bson.M
	unset        bson.M
	push         bson.M
	addToSet     bson.M
	pull         bson.M
	arrayFilters []any
}

func NewUpdate() *Update {
	return &Update{}
}

func (u *Update) Set(field string, value any) *Update {
	if u.set == nil {
		u.set = bson.M{}
	}
	u.set[field] = value
	return u
}

func (u *Update) Unset(field string) *Update {
	if u.unset == nil {
		u.unset = bson.M{}
	}
	u.unset[field] = ""
	return u
}

func (u *Update) Push(field string, value any) *Update {
	if u.push == nil {
		u.push = bson.M{}
	}
	u.push[field] = value
	return u
}

// AddToSet appends value unless an equal element is already present.
func (u *Update) AddToSet(field string, value any) *Update {
	if u.addToSet == nil {
		u.addToSet = bson.M{}
	}
	u.addToSet[field] = value
	return u
}

// Pull removes every element equal to value, or matching it when value is a
// condition document such as bson.M{"user_id": id}.
func (u *Update) Pull(field string, value any) *Update {
	if u.pull == nil {
		u.pull = bson.M{}
	}
	u.pull[field] = value
	return u
}

// SetMatched sets subField on the elements of arrayField whose matchField
// equals matchValue, using a filtered positional operator.
func (u *Update) SetMatched(arrayField, matchField string, matchValue any, subField string, value any) *Update {
	ident := fmt.Sprintf("e%d", len(u.arrayFilters))
	u.arrayFilters = append(u.arrayFilters, bson.M{ident + "." + matchField: matchValue})
	return u.Set(fmt.Sprintf("%s.$[%s].%s", arrayField, ident, subField), value)
}

func (u *Update) Empty() bool {
	return len(u.set) == 0 && len(u.unset) == 0 && len(u.push) == 0 &&
		len(u.addToSet) == 0 && len(u.pull) == 0
}

func (u *Update) ArrayFilters() []any {
	return u.arrayFilters
}

// Document renders the update operators.
func (u *Update) Document() bson.M {
	doc := bson.M{}
	if len(u.set) > 0 {
		doc["$set"] = u.set
	}
	if len(u.unset) > 0 {
		doc["$unset"] = u.unset
	}
	if len(u.push) > 0 {
		doc["$push"] = u.push
	}
	if len(u.addToSet) > 0 {
		doc["$addToSet"] = u.addToSet
	}
	if len(u.pull) > 0 {
		doc["$pull"] = u.pull
	}
	return doc
}
