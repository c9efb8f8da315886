package http

// registerRoutes sets up all routes for the server.
// All routes are defined in this single file for easy navigation.
func (s *Server) registerRoutes() {
	// Health check routes (public)
	s.echo.GET("/health", s.handleHealthCheck)
	s.echo.GET("/health/live", s.handleLivenessCheck)
	s.echo.GET("/health/ready", s.handleReadinessCheck)

	api := s.echo.Group("/api")
	api.Use(s.OptionalReviewer())

	// Photo templates (catalog is static)
	api.GET("/templates", s.handleListTemplates)
	api.GET("/templates/:name", s.handleGetTemplate)

	// Orders
	api.POST("/orders", s.handleCreateOrder)
	api.GET("/orders", s.handleListOrders)
	api.GET("/orders/:id", s.handleGetOrder)
	api.PUT("/orders/:id/status", s.handleUpdateOrderStatus)
	api.GET("/orders/:id/readiness", s.handleGetOrderReadiness)
	api.GET("/orders/:id/events", s.handleGetOrderEvents)
	api.DELETE("/orders/:id", s.handleDeleteOrder)

	// Photo documents
	api.POST("/photo-documents", s.handleUploadPhoto)
	api.GET("/photo-documents", s.handleListPhotos)
	api.GET("/photo-documents/:id", s.handleGetPhoto)
	api.DELETE("/photo-documents/:id", s.handleDeletePhoto)
	api.PUT("/photo-documents/:id/metadata", s.handleSetPhotoMetadata)
	api.PUT("/photo-documents/:id/order", s.handleAssignPhoto)
	api.POST("/photo-documents/:id/annotations", s.handleAddAnnotation)
	api.PUT("/photo-documents/:id/annotations/:annotationId", s.handleUpdateAnnotation)
	api.DELETE("/photo-documents/:id/annotations/:annotationId", s.handleRemoveAnnotation)

	// Review decisions require an identified reviewer
	review := api.Group("", s.RequireReviewer())
	review.POST("/photo-documents/:id/approve", s.handleApprovePhoto)
	review.POST("/photo-documents/:id/reject", s.handleRejectPhoto)
	review.POST("/reports/:id/approve", s.handleApproveReport)

	// Reports
	api.POST("/reports", s.handleCreateReport)
	api.GET("/reports", s.handleListReports)
	api.GET("/reports/jobs/:jobId", s.handleGetReportJob)
	api.GET("/reports/:id", s.handleGetReport)
	api.PUT("/reports/:id", s.handleUpdateReport)
	api.POST("/reports/:id/photos", s.handleIncludeReportPhoto)
	api.POST("/reports/:id/generate", s.handleGenerateReport)
	api.POST("/reports/:id/deliver", s.handleDeliverReport)
	api.POST("/reports/:id/archive", s.handleArchiveReport)
	api.GET("/reports/:id/download", s.handleDownloadReport)
	api.DELETE("/reports/:id", s.handleDeleteReport)
}
