package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anragu/poolpal/internal/ledger"
	"github.com/anragu/poolpal/internal/middleware"
	"github.com/anragu/poolpal/internal/service"
)

type poolHandlers struct {
	pools *service.PoolService
}

// ledgerView is the display projection of a shared pool: expenses newest
// first plus the open and settled totals.
func (h *poolHandlers) ledgerView(c *gin.Context) {
	poolID, expenses, err := h.pools.Ledger(c.Request.Context(), middleware.GetUID(c), c.Param("uid"))
	if err != nil {
		writeError(c, err)
		return
	}

	open, settled := ledger.Totals(expenses)
	c.JSON(http.StatusOK, gin.H{
		"pool_id":  poolID,
		"expenses": expenses,
		"open":     open,
		"settled":  settled,
	})
}

func (h *poolHandlers) addExpense(c *gin.Context) {
	var req struct {
		Amount float64 `json:"amount" binding:"required"`
		Reason string  `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pool, err := h.pools.AddExpense(c.Request.Context(), middleware.GetUID(c), c.Param("uid"), req.Amount, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pool)
}

func (h *poolHandlers) toggleExpense(c *gin.Context) {
	pool, err := h.pools.ToggleExpenseDone(c.Request.Context(), middleware.GetUID(c), c.Param("pool"), c.Param("expense"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pool)
}
