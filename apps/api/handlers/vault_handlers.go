package handlers

import (
	"net/http"
	"strconv"

	"github.com/cyphera/vault-ledger/helpers"
	"github.com/cyphera/vault-ledger/interfaces"
	"github.com/cyphera/vault-ledger/types/api/requests"
	"github.com/cyphera/vault-ledger/types/api/responses"
	"github.com/cyphera/vault-ledger/vault"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// VaultHandler handles share ledger operations
type VaultHandler struct {
	common       *CommonServices
	logger       *zap.Logger
	vaultService interfaces.VaultService
}

// NewVaultHandler creates a new vault handler
func NewVaultHandler(common *CommonServices, logger *zap.Logger) *VaultHandler {
	return &VaultHandler{
		common:       common,
		logger:       logger,
		vaultService: common.GetVaultService(),
	}
}

// Use types from the centralized packages
type DepositRequest = requests.DepositRequest
type WithdrawRequest = requests.WithdrawRequest
type TransferRequest = requests.TransferRequest
type TransferFromRequest = requests.TransferFromRequest
type ApproveRequest = requests.ApproveRequest
type AllowanceChangeRequest = requests.AllowanceChangeRequest
type PermitRequest = requests.PermitRequest
type SetDepositLimitRequest = requests.SetDepositLimitRequest
type SetShutdownRequest = requests.SetShutdownRequest
type VaultStateResponse = responses.VaultStateResponse
type DepositResponse = responses.DepositResponse
type WithdrawResponse = responses.WithdrawResponse
type TransferResponse = responses.TransferResponse
type ApprovalResponse = responses.ApprovalResponse
type PermitResponse = responses.PermitResponse
type PermitDigestResponse = responses.PermitDigestResponse

// parseOptionalAmount treats an absent amount as the everything sentinel,
// leaving resolution against the live balance to the ledger.
func parseOptionalAmount(s string) (*uint256.Int, error) {
	if s == "" {
		return nil, nil
	}
	return helpers.ParseAmount(s)
}

// GetVault godoc
// @Summary Get vault state
// @Description Retrieves the full public state of the share ledger
// @Tags vault
// @Accept json
// @Produce json
// @Success 200 {object} VaultStateResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /vault [get]
func (h *VaultHandler) GetVault(c *gin.Context) {
	state, err := h.vaultService.GetState(c.Request.Context())
	if err != nil {
		handleVaultError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, state)
}

// GetPricePerShare godoc
// @Summary Get price per share
// @Description Retrieves the current value of one share in underlying token units
// @Tags vault
// @Accept json
// @Produce json
// @Success 200 {object} responses.PricePerShareResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /vault/price-per-share [get]
func (h *VaultHandler) GetPricePerShare(c *gin.Context) {
	state, err := h.vaultService.GetState(c.Request.Context())
	if err != nil {
		handleVaultError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, responses.PricePerShareResponse{
		Object:        "price_per_share",
		PricePerShare: state.PricePerShare,
		Decimals:      state.Decimals,
	})
}

// GetBalance godoc
// @Summary Get share balance
// @Description Retrieves the share balance of a holder
// @Tags vault
// @Accept json
// @Produce json
// @Param address path string true "Holder address"
// @Success 200 {object} responses.BalanceResponse
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /vault/balances/{address} [get]
func (h *VaultHandler) GetBalance(c *gin.Context) {
	holder, err := helpers.ParseAddress(c.Param("address"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid holder address", err)
		return
	}

	balance, err := h.vaultService.GetBalance(c.Request.Context(), holder)
	if err != nil {
		handleVaultError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, balance)
}

// GetAllowance godoc
// @Summary Get allowance
// @Description Retrieves the remaining share allowance a spender holds over an owner's balance
// @Tags vault
// @Accept json
// @Produce json
// @Param owner path string true "Owner address"
// @Param spender path string true "Spender address"
// @Success 200 {object} responses.AllowanceResponse
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /vault/allowances/{owner}/{spender} [get]
func (h *VaultHandler) GetAllowance(c *gin.Context) {
	owner, err := helpers.ParseAddress(c.Param("owner"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid owner address", err)
		return
	}

	spender, err := helpers.ParseAddress(c.Param("spender"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid spender address", err)
		return
	}

	allowance, err := h.vaultService.GetAllowance(c.Request.Context(), owner, spender)
	if err != nil {
		handleVaultError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, allowance)
}

// GetNonce godoc
// @Summary Get permit nonce
// @Description Retrieves the next expected permit nonce for a holder
// @Tags vault
// @Accept json
// @Produce json
// @Param address path string true "Holder address"
// @Success 200 {object} responses.NonceResponse
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /vault/nonces/{address} [get]
func (h *VaultHandler) GetNonce(c *gin.Context) {
	holder, err := helpers.ParseAddress(c.Param("address"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid holder address", err)
		return
	}

	nonce, err := h.vaultService.GetPermitNonce(c.Request.Context(), holder)
	if err != nil {
		handleVaultError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, nonce)
}

// GetPermitDigest godoc
// @Summary Get permit digest
// @Description Computes the EIP-712 digest a holder must sign to authorize a spender off-chain. When nonce is omitted the holder's next nonce is used.
// @Tags vault
// @Accept json
// @Produce json
// @Param holder query string true "Holder address"
// @Param spender query string true "Spender address"
// @Param nonce query integer false "Permit nonce (defaults to the holder's next nonce)"
// @Param expiry query integer false "Unix expiry timestamp (0 never expires)"
// @Param allowed query boolean false "Grant (true, default) or revoke (false)"
// @Success 200 {object} PermitDigestResponse
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /vault/permit-digest [get]
func (h *VaultHandler) GetPermitDigest(c *gin.Context) {
	holder, err := helpers.ParseAddress(c.Query("holder"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid holder address", err)
		return
	}

	spender, err := helpers.ParseAddress(c.Query("spender"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid spender address", err)
		return
	}

	allowed := true
	if allowedStr := c.Query("allowed"); allowedStr != "" {
		allowed, err = strconv.ParseBool(allowedStr)
		if err != nil {
			sendError(c, http.StatusBadRequest, "Invalid allowed parameter", err)
			return
		}
	}

	var expiry uint64
	if expiryStr := c.Query("expiry"); expiryStr != "" {
		expiry, err = strconv.ParseUint(expiryStr, 10, 64)
		if err != nil {
			sendError(c, http.StatusBadRequest, "Invalid expiry parameter", err)
			return
		}
	}

	var nonce uint64
	if nonceStr := c.Query("nonce"); nonceStr != "" {
		nonce, err = strconv.ParseUint(nonceStr, 10, 64)
		if err != nil {
			sendError(c, http.StatusBadRequest, "Invalid nonce parameter", err)
			return
		}
	} else {
		current, err := h.vaultService.GetPermitNonce(c.Request.Context(), holder)
		if err != nil {
			handleVaultError(c, err)
			return
		}
		nonce = current.Nonce
	}

	digest, err := h.vaultService.PermitDigest(c.Request.Context(), holder, spender, nonce, expiry, allowed)
	if err != nil {
		handleVaultError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, digest)
}

// Deposit godoc
// @Summary Deposit tokens
// @Description Pulls underlying tokens from the sender and mints shares to the recipient at the current share price. Omitting amount deposits the sender's full token balance.
// @Tags vault
// @Accept json
// @Produce json
// @Param request body DepositRequest true "Deposit details"
// @Success 200 {object} DepositResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /vault/deposit [post]
func (h *VaultHandler) Deposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sender, err := helpers.ParseAddress(req.Sender)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid sender address", err)
		return
	}

	recipient := sender
	if req.Recipient != "" {
		recipient, err = helpers.ParseAddress(req.Recipient)
		if err != nil {
			sendError(c, http.StatusBadRequest, "Invalid recipient address", err)
			return
		}
	}

	amount, err := parseOptionalAmount(req.Amount)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	result, err := h.vaultService.Deposit(c.Request.Context(), sender, recipient, amount)
	if err != nil {
		handleVaultError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, result)
}

// Withdraw godoc
// @Summary Withdraw tokens
// @Description Burns the sender's shares and pays out underlying tokens to the recipient. Omitting shares redeems the sender's full balance.
// @Tags vault
// @Accept json
// @Produce json
// @Param request body WithdrawRequest true "Withdrawal details"
// @Success 200 {object} WithdrawResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /vault/withdraw [post]
func (h *VaultHandler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sender, err := helpers.ParseAddress(req.Sender)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid sender address", err)
		return
	}

	recipient := sender
	if req.Recipient != "" {
		recipient, err = helpers.ParseAddress(req.Recipient)
		if err != nil {
			sendError(c, http.StatusBadRequest, "Invalid recipient address", err)
			return
		}
	}

	shares, err := parseOptionalAmount(req.Shares)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid share amount", err)
		return
	}

	result, err := h.vaultService.Withdraw(c.Request.Context(), sender, recipient, shares)
	if err != nil {
		handleVaultError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, result)
}

// Transfer godoc
// @Summary Transfer shares
// @Description Moves shares from the sender to the recipient without touching the token side
// @Tags vault
// @Accept json
// @Produce json
// @Param request body TransferRequest true "Transfer details"
// @Success 200 {object} TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /vault/transfer [post]
func (h *VaultHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sender, err := helpers.ParseAddress(req.Sender)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid sender address", err)
		return
	}

	recipient, err := helpers.ParseAddress(req.Recipient)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid recipient address", err)
		return
	}

	shares, err := helpers.ParseAmount(req.Shares)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid share amount", err)
		return
	}

	result, err := h.vaultService.Transfer(c.Request.Context(), sender, recipient, shares)
	if err != nil {
		handleVaultError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, result)
}

// TransferFrom godoc
// @Summary Transfer shares on allowance
// @Description Moves shares from an owner to a recipient, spending the caller's allowance
// @Tags vault
// @Accept json
// @Produce json
// @Param request body TransferFromRequest true "Delegated transfer details"
// @Success 200 {object} TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /vault/transfer-from [post]
func (h *VaultHandler) TransferFrom(c *gin.Context) {
	var req TransferFromRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	spender, err := helpers.ParseAddress(req.Spender)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid spender address", err)
		return
	}

	owner, err := helpers.ParseAddress(req.Owner)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid owner address", err)
		return
	}

	recipient, err := helpers.ParseAddress(req.Recipient)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid recipient address", err)
		return
	}

	shares, err := helpers.ParseAmount(req.Shares)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid share amount", err)
		return
	}

	result, err := h.vaultService.TransferFrom(c.Request.Context(), spender, owner, recipient, shares)
	if err != nil {
		handleVaultError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, result)
}

// Approve godoc
// @Summary Approve a spender
// @Description Sets the spender's allowance over the owner's shares. Amount "max" grants the unlimited allowance.
// @Tags vault
// @Accept json
// @Produce json
// @Param request body ApproveRequest true "Approval details"
// @Success 200 {object} ApprovalResponse
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /vault/approve [post]
func (h *VaultHandler) Approve(c *gin.Context) {
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	owner, spender, amount, ok := h.parseAllowanceChange(c, req.Owner, req.Spender, req.Amount)
	if !ok {
		return
	}

	result, err := h.vaultService.Approve(c.Request.Context(), owner, spender, amount)
	if err != nil {
		handleVaultError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, result)
}

// IncreaseAllowance godoc
// @Summary Increase an allowance
// @Description Raises the spender's allowance by the given amount, saturating at the unlimited sentinel
// @Tags vault
// @Accept json
// @Produce json
// @Param request body AllowanceChangeRequest true "Allowance change details"
// @Success 200 {object} ApprovalResponse
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /vault/allowance/increase [post]
func (h *VaultHandler) IncreaseAllowance(c *gin.Context) {
	var req AllowanceChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	owner, spender, amount, ok := h.parseAllowanceChange(c, req.Owner, req.Spender, req.Amount)
	if !ok {
		return
	}

	result, err := h.vaultService.IncreaseAllowance(c.Request.Context(), owner, spender, amount)
	if err != nil {
		handleVaultError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, result)
}

// DecreaseAllowance godoc
// @Summary Decrease an allowance
// @Description Lowers the spender's allowance by the given amount. Fails when the decrease exceeds the remaining allowance.
// @Tags vault
// @Accept json
// @Produce json
// @Param request body AllowanceChangeRequest true "Allowance change details"
// @Success 200 {object} ApprovalResponse
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /vault/allowance/decrease [post]
func (h *VaultHandler) DecreaseAllowance(c *gin.Context) {
	var req AllowanceChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	owner, spender, amount, ok := h.parseAllowanceChange(c, req.Owner, req.Spender, req.Amount)
	if !ok {
		return
	}

	result, err := h.vaultService.DecreaseAllowance(c.Request.Context(), owner, spender, amount)
	if err != nil {
		handleVaultError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, result)
}

// parseAllowanceChange validates the shared fields of the three allowance
// mutations. It writes the error response itself and reports success through
// ok.
func (h *VaultHandler) parseAllowanceChange(c *gin.Context, ownerStr, spenderStr, amountStr string) (owner, spender common.Address, amount *uint256.Int, ok bool) {
	owner, err := helpers.ParseAddress(ownerStr)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid owner address", err)
		return common.Address{}, common.Address{}, nil, false
	}

	spender, err = helpers.ParseAddress(spenderStr)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid spender address", err)
		return common.Address{}, common.Address{}, nil, false
	}

	amount, err = helpers.ParseAmount(amountStr)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid amount", err)
		return common.Address{}, common.Address{}, nil, false
	}

	return owner, spender, amount, true
}

// Permit godoc
// @Summary Submit a permit
// @Description Applies a signed off-chain approval, granting or revoking the spender's unlimited allowance without a call from the holder
// @Tags vault
// @Accept json
// @Produce json
// @Param request body PermitRequest true "Signed permit"
// @Success 200 {object} PermitResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /vault/permit [post]
func (h *VaultHandler) Permit(c *gin.Context) {
	var req PermitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	holder, err := helpers.ParseAddress(req.Holder)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid holder address", err)
		return
	}

	spender, err := helpers.ParseAddress(req.Spender)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid spender address", err)
		return
	}

	r, err := helpers.ParseHash32(req.R)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid signature r value", err)
		return
	}

	s, err := helpers.ParseHash32(req.S)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid signature s value", err)
		return
	}

	sig := vault.Signature{V: req.V, R: r, S: s}

	result, err := h.vaultService.Permit(c.Request.Context(), holder, spender, req.Nonce, req.Expiry, req.Allowed, sig)
	if err != nil {
		handleVaultError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, result)
}

// SetDepositLimit godoc
// @Summary Set the deposit limit
// @Description Changes the ceiling on total assets the vault will accept. Omitting limit removes the cap. Owner only; an omitted caller acts as the vault owner.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body SetDepositLimitRequest true "New deposit limit"
// @Success 200 {object} VaultStateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/deposit-limit [post]
func (h *VaultHandler) SetDepositLimit(c *gin.Context) {
	var req SetDepositLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	caller, ok := h.resolveCaller(c, req.Caller)
	if !ok {
		return
	}

	limit, err := parseOptionalAmount(req.Limit)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid limit", err)
		return
	}

	h.logger.Info("Processing deposit limit change",
		zap.String("caller", caller.Hex()),
		zap.String("limit", req.Limit),
	)

	state, err := h.vaultService.SetDepositLimit(c.Request.Context(), caller, limit)
	if err != nil {
		handleVaultError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, state)
}

// SetEmergencyShutdown godoc
// @Summary Toggle emergency shutdown
// @Description Halts deposits while leaving every exit path open, or lifts a previous halt. Owner only; an omitted caller acts as the vault owner.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body SetShutdownRequest true "Shutdown state"
// @Success 200 {object} VaultStateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/emergency-shutdown [post]
func (h *VaultHandler) SetEmergencyShutdown(c *gin.Context) {
	var req SetShutdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	caller, ok := h.resolveCaller(c, req.Caller)
	if !ok {
		return
	}

	h.logger.Info("Processing emergency shutdown change",
		zap.String("caller", caller.Hex()),
		zap.Bool("active", req.Active),
	)

	state, err := h.vaultService.SetEmergencyShutdown(c.Request.Context(), caller, req.Active)
	if err != nil {
		handleVaultError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, state)
}

// resolveCaller maps an admin request's caller field to an address, falling
// back to the vault owner when the field is empty. The ledger still enforces
// the owner check on whatever address comes out.
func (h *VaultHandler) resolveCaller(c *gin.Context, callerStr string) (common.Address, bool) {
	if callerStr != "" {
		caller, err := helpers.ParseAddress(callerStr)
		if err != nil {
			sendError(c, http.StatusBadRequest, "Invalid caller address", err)
			return common.Address{}, false
		}
		return caller, true
	}

	state, err := h.vaultService.GetState(c.Request.Context())
	if err != nil {
		handleVaultError(c, err)
		return common.Address{}, false
	}
	return common.HexToAddress(state.Owner), true
}
