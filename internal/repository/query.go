package repository

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
)

type condKind int

const (
	condEquals condKind = iota
	condContains
	condRange
)

// Cond 查询子句。取代松散的可选字段参数对象：每个字段只能携带
// Equals / Contains / Range 三种封闭组合子之一。
type Cond struct {
	kind  condKind
	value any
	from  any
	to    any
}

// Equals 精确匹配
func Equals(v any) Cond {
	return Cond{kind: condEquals, value: v}
}

// Contains 大小写不敏感的子串匹配，在查询层转为 $regex
func Contains(s string) Cond {
	return Cond{kind: condContains, value: s}
}

// Range 闭区间匹配，任一端传 nil 表示不设界
func Range(from, to any) Cond {
	return Cond{kind: condRange, from: from, to: to}
}

// Query 字段名到子句的映射，所有子句按 AND 组合
type Query map[string]Cond

// Build 组装成 mongo 过滤器
func (q Query) Build() bson.M {
	filter := bson.M{}
	for field, c := range q {
		switch c.kind {
		case condEquals:
			filter[field] = c.value
		case condContains:
			filter[field] = bson.M{
				"$regex":   regexp.QuoteMeta(c.value.(string)),
				"$options": "i",
			}
		case condRange:
			r := bson.M{}
			if c.from != nil {
				r["$gte"] = c.from
			}
			if c.to != nil {
				r["$lte"] = c.to
			}
			filter[field] = r
		}
	}
	return filter
}
