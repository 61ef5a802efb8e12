package docstore

import (
	"regexp"
	"strings"

	"zenith/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// containsRegex matches s literally and case-insensitively.
func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(s)), Options: "i"}
}

func searchClause(search string, fields ...string) bson.A {
	re := containsRegex(search)
	or := bson.A{}
	for _, f := range fields {
		or = append(or, bson.M{f: re})
	}
	return or
}

func addRange(filter bson.M, field string, r models.DateRange) {
	cond := bson.M{}
	if r.From != nil {
		cond["$gte"] = *r.From
	}
	if r.To != nil {
		cond["$lte"] = *r.To
	}
	if len(cond) > 0 {
		filter[field] = cond
	}
}

func dayOf(field string) bson.M {
	return bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$" + field}}
}

func countIf(cond any) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{cond, 1, 0}}}
}

var priorityRank = bson.M{"$switch": bson.M{
	"branches": bson.A{
		bson.M{"case": bson.M{"$eq": bson.A{"$priority", models.PriorityLow}}, "then": 1},
		bson.M{"case": bson.M{"$eq": bson.A{"$priority", models.PriorityMedium}}, "then": 2},
		bson.M{"case": bson.M{"$eq": bson.A{"$priority", models.PriorityHigh}}, "then": 3},
	},
	"default": 0,
}}

// listPipeline sorts on an arbitrary expression with missing values last,
// falling back to createdAt and _id for a stable order.
func listPipeline(match bson.M, sortKey any, desc bool, page models.Page) mongo.Pipeline {
	dir := 1
	if desc {
		dir = -1
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{
			"_sortKey": sortKey,
			"_sortMissing": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{bson.M{"$ifNull": bson.A{sortKey, nil}}, nil}}, 1, 0,
			}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "_sortMissing", Value: 1},
			{Key: "_sortKey", Value: dir},
			{Key: "createdAt", Value: dir},
			{Key: "_id", Value: dir},
		}}},
	}
	if page.Limit > 0 {
		pipeline = append(pipeline,
			bson.D{{Key: "$skip", Value: int64(page.Offset())}},
			bson.D{{Key: "$limit", Value: int64(page.Limit)}},
		)
	}
	return append(pipeline, bson.D{{Key: "$project", Value: bson.M{"_sortKey": 0, "_sortMissing": 0}}})
}

func sortExpr(fields map[string]any, by models.Sort, fallback string) any {
	if expr, ok := fields[by.Field]; ok {
		return expr
	}
	return fields[fallback]
}

// recentDays keeps the newest limit day buckets and returns them oldest first.
func recentDays(match bson.M, group bson.M, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: group}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}
