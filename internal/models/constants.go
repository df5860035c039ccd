package models

const (
	TopicMealAssignments = "meal_assignments"
	TopicShoppingItems   = "shopping_items"
	TopicPlanGenerated   = "plan_generated"

	OutputFormatConsole = "console"
	OutputFormatJSON    = "json"
	OutputFormatParquet = "parquet"
	OutputFormatCSV     = "csv"

	DestinationLocal = "local"
	DestinationS3    = "s3"
)
