package http

import (
	"github.com/labstack/echo/v4"

	"github.com/dukerupert/weldmark"
)

func (s *Server) handleListTemplates(c echo.Context) error {
	return RespondOK(c, map[string]any{"templates": weldmark.TemplateCatalog})
}

func (s *Server) handleGetTemplate(c echo.Context) error {
	name, err := requireParam(c, "name")
	if err != nil {
		return err
	}

	template, err := weldmark.TemplateByName(name)
	if err != nil {
		return err
	}

	return RespondOK(c, template)
}
