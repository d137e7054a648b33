package httpd

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/dracker/dracker/internal/paging"
)

// listQuery reads the shared collection parameters. Sorting defaults to
// descending, matching the API consumers that want newest first.
func listQuery(c *fiber.Ctx) paging.ListQuery {
	return paging.ListQuery{
		Skip: c.QueryInt("skip", 0),
		Take: c.QueryInt("take", paging.TakeDefault),
		Sort: strings.TrimSpace(c.Query("sort")),
		Desc: c.QueryBool("desc", true),
		Q:    strings.TrimSpace(c.Query("q")),
	}.Normalize()
}

// parseBody decodes the JSON body and runs the payload's validation.
func parseBody(c *fiber.Ctx, out interface{ Validate() error }) error {
	if err := c.BodyParser(out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid request body").
			WithCode(goerrors.CodeBadRequest)
	}
	if err := out.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest)
	}
	return nil
}

// pathID reads a positive integer path parameter.
func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, goerrors.New("invalid "+name, goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}
	return int64(id), nil
}
