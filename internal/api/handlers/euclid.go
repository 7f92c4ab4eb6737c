package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rpmessner/uzu-parser/internal/notation/euclid"
)

type EuclidResponse struct {
	K        int    `json:"k"`
	N        int    `json:"n"`
	Offset   int    `json:"offset"`
	Pattern  []int  `json:"pattern"`
	Notation string `json:"notation"`
}

// Euclid returns the rotated Bjorklund pattern for ?k=&n=&offset=
func Euclid(c *gin.Context) {
	k, err := queryInt(c, "k", 0, true)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := queryInt(c, "n", 0, true)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	offset, err := queryInt(c, "offset", 0, false)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pattern, err := euclid.Pattern(k, n, offset)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	steps := make([]int, len(pattern))
	for i, onset := range pattern {
		if onset {
			steps[i] = 1
		}
	}

	c.JSON(http.StatusOK, EuclidResponse{
		K:        k,
		N:        n,
		Offset:   offset,
		Pattern:  steps,
		Notation: euclid.String(pattern),
	})
}

func queryInt(c *gin.Context, key string, defaultValue int, required bool) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		if required {
			return 0, fmt.Errorf("missing query parameter %q", key)
		}
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid query parameter %q: %s", key, raw)
	}
	return v, nil
}
