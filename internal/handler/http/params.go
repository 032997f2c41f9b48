package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/avolkhin/tripmate/models"
	"github.com/go-chi/chi/v5"
)

var errInvalidURLParam = errors.New("invalid URL parameter")

// urlParamInt64 extracts a chi URL parameter and parses it as a base-10
// int64 identifier.
func urlParamInt64(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || value <= 0 {
		return 0, errInvalidURLParam
	}
	return value, nil
}

// urlParamItemType extracts the {itemType} chi URL parameter and checks it
// against the known item kinds.
func urlParamItemType(r *http.Request) (models.ItemType, error) {
	itemType := models.ItemType(chi.URLParam(r, "itemType"))
	if !itemType.Valid() {
		return "", errInvalidURLParam
	}
	return itemType, nil
}
