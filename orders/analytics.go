package orders

import (
	"net/http"
	"time"

	"verdura/models"
	"verdura/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// analyticsFilter is the base match for every analytics query: an optional
// created_at range plus the cancelled-orders policy.
func (h *Handler) analyticsFilter(r *http.Request) bson.M {
	filter := bson.M{}
	if !h.IncludeCancelled {
		filter["status"] = bson.M{"$ne": models.StatusCancelled}
	}

	created := bson.M{}
	if from := r.URL.Query().Get("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			created["$gte"] = t
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			created["$lt"] = t.AddDate(0, 0, 1)
		}
	}
	if len(created) > 0 {
		filter["created_at"] = created
	}
	return filter
}

// Summary aggregates revenue and volume figures for the dashboard header.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := h.analyticsFilter(r)

	pipeline := []bson.M{
		{"$match": filter},
		{"$group": bson.M{
			"_id":           nil,
			"total_revenue": bson.M{"$sum": "$total_amount"},
			"order_count":   bson.M{"$sum": 1},
			"avg_order":     bson.M{"$avg": "$total_amount"},
			"min_order":     bson.M{"$min": "$total_amount"},
			"max_order":     bson.M{"$max": "$total_amount"},
			"items_sold": bson.M{"$sum": bson.M{
				"$sum": "$items.quantity",
			}},
		}},
	}

	cursor, err := h.DB.Orders.Aggregate(r.Context(), pipeline)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute summary")
		return
	}
	defer cursor.Close(r.Context())

	var rows []bson.M
	if err := cursor.All(r.Context(), &rows); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode summary")
		return
	}

	summary := utils.M{
		"total_revenue": 0.0,
		"order_count":   0,
		"avg_order":     0.0,
		"min_order":     0.0,
		"max_order":     0.0,
		"items_sold":    0,
	}
	if len(rows) > 0 {
		delete(rows[0], "_id")
		for k, v := range rows[0] {
			summary[k] = v
		}
	}

	// Status breakdown sits beside the totals and honors the same date range
	// and cancelled policy.
	statusCursor, err := h.DB.Orders.Aggregate(r.Context(), statusBreakdownPipeline(filter))
	if err == nil {
		defer statusCursor.Close(r.Context())
		var statusRows []bson.M
		if err := statusCursor.All(r.Context(), &statusRows); err == nil {
			breakdown := map[string]interface{}{}
			for _, row := range statusRows {
				if name, ok := row["_id"].(string); ok {
					breakdown[name] = row["count"]
				}
			}
			summary["status_breakdown"] = breakdown
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, summary)
}

func statusBreakdownPipeline(filter bson.M) []bson.M {
	return []bson.M{
		{"$match": filter},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
}

// Analytics runs one of the grouped sales pipelines, selected by ?group_by=
// (product, week, or month; product is the default).
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := h.analyticsFilter(r)
	groupBy := r.URL.Query().Get("group_by")

	var pipeline []bson.M
	switch groupBy {
	case "", "product":
		pipeline = []bson.M{
			{"$match": filter},
			{"$unwind": "$items"},
			{"$group": bson.M{
				"_id":          "$items.product_id",
				"product_name": bson.M{"$first": "$items.product_name"},
				"quantity":     bson.M{"$sum": "$items.quantity"},
				"revenue":      bson.M{"$sum": "$items.total"},
				"orders":       bson.M{"$sum": 1},
			}},
			{"$sort": bson.M{"revenue": -1}},
		}
	case "week":
		pipeline = []bson.M{
			{"$match": filter},
			{"$group": bson.M{
				"_id": bson.M{
					"year": bson.M{"$isoWeekYear": "$created_at"},
					"week": bson.M{"$isoWeek": "$created_at"},
				},
				"revenue": bson.M{"$sum": "$total_amount"},
				"orders":  bson.M{"$sum": 1},
			}},
			{"$sort": bson.M{"_id.year": 1, "_id.week": 1}},
		}
	case "month":
		pipeline = []bson.M{
			{"$match": filter},
			{"$group": bson.M{
				"_id": bson.M{
					"year":  bson.M{"$year": "$created_at"},
					"month": bson.M{"$month": "$created_at"},
				},
				"revenue": bson.M{"$sum": "$total_amount"},
				"orders":  bson.M{"$sum": 1},
			}},
			{"$sort": bson.M{"_id.year": 1, "_id.month": 1}},
		}
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "group_by must be product, week or month")
		return
	}

	cursor, err := h.DB.Orders.Aggregate(r.Context(), pipeline)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute analytics")
		return
	}
	defer cursor.Close(r.Context())

	rows := []bson.M{}
	if err := cursor.All(r.Context(), &rows); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode analytics")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"group_by": groupByOrDefault(groupBy),
		"results":  rows,
	})
}

func groupByOrDefault(groupBy string) string {
	if groupBy == "" {
		return "product"
	}
	return groupBy
}
