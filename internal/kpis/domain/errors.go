package domain

import "errors"

var ErrSetNotFound = errors.New("generated KPI set not found")
