package http

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const maxTaskIDLength = 128

var taskIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func validateTaskID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("task_id is required")
	}
	if len(id) > maxTaskIDLength {
		return fmt.Errorf("task_id too long (max %d characters)", maxTaskIDLength)
	}
	if !taskIDPattern.MatchString(id) {
		return errors.New("task_id contains invalid characters")
	}
	return nil
}
