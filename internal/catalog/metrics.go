package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recipeViews = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cookbook_recipe_views_total",
			Help: "Total number of successful recipe detail fetches",
		},
	)

	recipesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cookbook_recipes_created_total",
			Help: "Total number of recipes created",
		},
	)
)
