package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/warehouse-ops/dashboard-service/pkg/api"
	"github.com/warehouse-ops/dashboard-service/pkg/errors"
	"github.com/warehouse-ops/dashboard-service/pkg/logging"
	"github.com/warehouse-ops/dashboard-service/pkg/middleware"

	"github.com/warehouse-ops/dashboard-service/internal/application"
	"github.com/warehouse-ops/dashboard-service/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func respond(responder *middleware.ErrorResponder, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		responder.RespondWithAppError(appErr)
	} else {
		responder.RespondInternalError(err)
	}
}

// Task lifecycle handlers

func createTaskHandler(service *application.TaskApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			TaskID       string  `json:"taskId"`
			PartNumber   string  `json:"partNumber" binding:"required"`
			Workplace    string  `json:"workplace" binding:"required"`
			Quantity     string  `json:"quantity" binding:"required,quantity"`
			QuantityUnit string  `json:"quantityUnit" binding:"required,oneof=piece pallet box"`
			Priority     string  `json:"priority" binding:"omitempty,priority"`
			IsProduction bool    `json:"isProduction"`
			IsLogistics  bool    `json:"isLogistics"`
			StandardTime float64 `json:"standardTime" binding:"omitempty,gte=0"`
			CreatedBy    string  `json:"createdBy" binding:"required"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		middleware.AddSpanAttributes(c, map[string]interface{}{
			"task.part_number": req.PartNumber,
		})

		cmd := application.CreateTaskCommand{
			TaskID:       req.TaskID,
			PartNumber:   req.PartNumber,
			Workplace:    req.Workplace,
			Quantity:     req.Quantity,
			QuantityUnit: domain.QuantityUnit(req.QuantityUnit),
			Priority:     domain.Priority(req.Priority),
			IsProduction: req.IsProduction,
			IsLogistics:  req.IsLogistics,
			StandardTime: req.StandardTime,
			CreatedBy:    req.CreatedBy,
		}

		task, err := service.CreateTask(c.Request.Context(), cmd)
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusCreated, task)
	}
}

func getTaskHandler(service *application.TaskApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		taskID := c.Param("taskId")
		middleware.AddSpanAttributes(c, map[string]interface{}{
			"task.id": taskID,
		})

		task, err := service.GetTask(c.Request.Context(), application.GetTaskQuery{TaskID: taskID})
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, task)
	}
}

func listTasksHandler(service *application.TaskApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		page := api.ParsePagination(c)
		query := application.ListTasksQuery{
			Limit:  int(page.GetLimit()),
			Offset: int(page.GetOffset()),
		}

		tasks, err := service.ListTasks(c.Request.Context(), query)
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, tasks)
	}
}

// taskAction wires a parameterless lifecycle transition to a route
func taskAction(logger *logging.Logger, run func(c *gin.Context, taskID string) (*application.TaskDTO, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		taskID := c.Param("taskId")
		middleware.AddSpanAttributes(c, map[string]interface{}{
			"task.id": taskID,
		})

		task, err := run(c, taskID)
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, task)
	}
}

func startProgressHandler(service *application.TaskApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return taskAction(logger, func(c *gin.Context, taskID string) (*application.TaskDTO, error) {
		var req struct {
			UserID string `json:"userId" binding:"required"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			return nil, appErr
		}
		return service.StartProgress(c.Request.Context(), application.StartProgressCommand{TaskID: taskID, UserID: req.UserID})
	})
}

func stopProgressHandler(service *application.TaskApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return taskAction(logger, func(c *gin.Context, taskID string) (*application.TaskDTO, error) {
		return service.StopProgress(c.Request.Context(), application.StopProgressCommand{TaskID: taskID})
	})
}

func completeTaskHandler(service *application.TaskApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return taskAction(logger, func(c *gin.Context, taskID string) (*application.TaskDTO, error) {
		var req struct {
			UserID string `json:"userId" binding:"required"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			return nil, appErr
		}
		return service.CompleteTask(c.Request.Context(), application.CompleteTaskCommand{TaskID: taskID, UserID: req.UserID})
	})
}

func reportMissingHandler(service *application.TaskApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return taskAction(logger, func(c *gin.Context, taskID string) (*application.TaskDTO, error) {
		var req struct {
			UserID string `json:"userId" binding:"required"`
			Reason string `json:"reason" binding:"required"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			return nil, appErr
		}
		return service.ReportMissing(c.Request.Context(), application.ReportMissingCommand{TaskID: taskID, UserID: req.UserID, Reason: req.Reason})
	})
}

func blockTaskHandler(service *application.TaskApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return taskAction(logger, func(c *gin.Context, taskID string) (*application.TaskDTO, error) {
		var req struct {
			UserID string `json:"userId" binding:"required"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			return nil, appErr
		}
		return service.BlockTask(c.Request.Context(), application.BlockTaskCommand{TaskID: taskID, UserID: req.UserID})
	})
}

func unblockTaskHandler(service *application.TaskApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return taskAction(logger, func(c *gin.Context, taskID string) (*application.TaskDTO, error) {
		return service.UnblockTask(c.Request.Context(), application.UnblockTaskCommand{TaskID: taskID})
	})
}

func startAuditHandler(service *application.TaskApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return taskAction(logger, func(c *gin.Context, taskID string) (*application.TaskDTO, error) {
		var req struct {
			UserID string `json:"userId" binding:"required"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			return nil, appErr
		}
		return service.StartAudit(c.Request.Context(), application.StartAuditCommand{TaskID: taskID, UserID: req.UserID})
	})
}

func completeAuditHandler(service *application.TaskApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return taskAction(logger, func(c *gin.Context, taskID string) (*application.TaskDTO, error) {
		var req struct {
			Result string `json:"result" binding:"required,audit_result"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			return nil, appErr
		}
		return service.CompleteAudit(c.Request.Context(), application.CompleteAuditCommand{TaskID: taskID, Result: domain.AuditResult(req.Result)})
	})
}

// Analytics handlers

type taskFilterRequest struct {
	Mode   string `form:"mode" binding:"omitempty,filter_mode"`
	Source string `form:"source" binding:"omitempty,source_filter"`
	Shift  string `form:"shift" binding:"omitempty,shift_filter"`
	Start  int64  `form:"start" binding:"omitempty,gte=0"`
	End    int64  `form:"end" binding:"omitempty,gte=0"`
}

func (r taskFilterRequest) toFilter() domain.TaskFilter {
	f := domain.TaskFilter{
		Mode:        domain.FilterMode(r.Mode),
		Source:      domain.SourceFilter(r.Source),
		Shift:       domain.ShiftFilter(r.Shift),
		CustomStart: r.Start,
		CustomEnd:   r.End,
	}
	if f.Mode == "" {
		f.Mode = domain.FilterToday
	}
	if f.Source == "" {
		f.Source = domain.SourceAll
	}
	if f.Shift == "" {
		f.Shift = domain.ShiftAll
	}
	return f
}

func taskAnalyticsHandler(service *application.AnalyticsService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req taskFilterRequest
		if appErr := api.BindQueryAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		stats, err := service.TaskAnalytics(c.Request.Context(), application.TaskAnalyticsQuery{Filter: req.toFilter()})
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, stats)
	}
}

func workerDetailHandler(service *application.AnalyticsService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		userID := c.Param("userId")
		middleware.AddSpanAttributes(c, map[string]interface{}{
			"worker.id": userID,
		})

		var req taskFilterRequest
		if appErr := api.BindQueryAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		detail, err := service.WorkerDetail(c.Request.Context(), application.WorkerDetailQuery{
			UserID: userID,
			Filter: req.toFilter(),
		})
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, detail)
	}
}

type scrapRangeRequest struct {
	Start int64 `form:"start" binding:"required,gt=0"`
	End   int64 `form:"end" binding:"required,gt=0"`
}

func scrapAnalyticsHandler(service *application.AnalyticsService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req scrapRangeRequest
		if appErr := api.BindQueryAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		stats, err := service.ScrapAnalytics(c.Request.Context(), application.ScrapAnalyticsQuery{Start: req.Start, End: req.End})
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, stats)
	}
}

func exportTaskReportHandler(service *application.AnalyticsService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req taskFilterRequest
		if appErr := api.BindQueryAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		data, err := service.ExportTaskReport(c.Request.Context(), application.TaskAnalyticsQuery{Filter: req.toFilter()})
		if err != nil {
			respond(responder, err)
			return
		}

		filename := fmt.Sprintf("task-report-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, xlsxContentType, data)
	}
}

func exportScrapReportHandler(service *application.AnalyticsService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req scrapRangeRequest
		if appErr := api.BindQueryAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		data, err := service.ExportScrapReport(c.Request.Context(), application.ScrapAnalyticsQuery{Start: req.Start, End: req.End})
		if err != nil {
			respond(responder, err)
			return
		}

		filename := fmt.Sprintf("scrap-report-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, xlsxContentType, data)
	}
}

// Scrap master data handlers

func saveMetalHandler(service *application.ScrapApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			MetalID     string `json:"metalId" binding:"required,metal_id"`
			Type        string `json:"type" binding:"required"`
			Description string `json:"description"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		metal, err := service.SaveMetal(c.Request.Context(), application.SaveMetalCommand{
			MetalID:     req.MetalID,
			Type:        req.Type,
			Description: req.Description,
		})
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusCreated, metal)
	}
}

func listMetalsHandler(service *application.ScrapApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		metals, err := service.ListMetals(c.Request.Context())
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, metals)
	}
}

func deleteMetalHandler(service *application.ScrapApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		if err := service.DeleteMetal(c.Request.Context(), c.Param("metalId")); err != nil {
			respond(responder, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func upsertPriceHandler(service *application.ScrapApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			MetalID string  `json:"metalId" binding:"required,metal_id"`
			Month   int     `json:"month" binding:"required,gte=1,lte=12"`
			Year    int     `json:"year" binding:"required,gte=2000"`
			Price   float64 `json:"price" binding:"gte=0"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		price, err := service.UpsertPrice(c.Request.Context(), application.UpsertPriceCommand{
			MetalID: req.MetalID,
			Month:   req.Month,
			Year:    req.Year,
			Price:   req.Price,
		})
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, price)
	}
}

func listPricesHandler(service *application.ScrapApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		prices, err := service.ListPrices(c.Request.Context())
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, prices)
	}
}

func saveBinHandler(service *application.ScrapApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			Name string  `json:"name" binding:"required"`
			Tara float64 `json:"tara" binding:"gte=0"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		bin, err := service.SaveBin(c.Request.Context(), application.SaveBinCommand{Name: req.Name, Tara: req.Tara})
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusCreated, bin)
	}
}

func listBinsHandler(service *application.ScrapApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		bins, err := service.ListBins(c.Request.Context())
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, bins)
	}
}

func deleteBinHandler(service *application.ScrapApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		if err := service.DeleteBin(c.Request.Context(), c.Param("name")); err != nil {
			respond(responder, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func weighScrapHandler(service *application.ScrapApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			BinName string  `json:"binName" binding:"required"`
			Brutto  float64 `json:"brutto" binding:"required,gt=0"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		weighing, err := service.WeighScrap(c.Request.Context(), application.WeighScrapCommand{
			BinName: req.BinName,
			Brutto:  req.Brutto,
		})
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, weighing)
	}
}

func createArchiveHandler(service *application.ScrapApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			DispatchDate  int64   `json:"dispatchDate" binding:"omitempty,gte=0"`
			ExternalValue float64 `json:"externalValue" binding:"gte=0"`
			Items         []struct {
				MetalID   string  `json:"metalId" binding:"required,metal_id"`
				Netto     float64 `json:"netto" binding:"required,gt=0"`
				Timestamp int64   `json:"timestamp" binding:"omitempty,gte=0"`
			} `json:"items" binding:"required,min=1,dive"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		cmd := application.CreateArchiveCommand{
			DispatchDate:  req.DispatchDate,
			ExternalValue: req.ExternalValue,
		}
		for _, it := range req.Items {
			cmd.Items = append(cmd.Items, application.ScrapItemInput{
				MetalID:   it.MetalID,
				Netto:     it.Netto,
				Timestamp: it.Timestamp,
			})
		}

		archive, err := service.CreateArchive(c.Request.Context(), cmd)
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusCreated, archive)
	}
}

func getArchiveHandler(service *application.ScrapApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		archive, err := service.GetArchive(c.Request.Context(), c.Param("archiveId"))
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, archive)
	}
}

func listArchivesHandler(service *application.ScrapApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		page := api.ParsePagination(c)
		archives, err := service.ListArchives(c.Request.Context(), int(page.GetLimit()), int(page.GetOffset()))
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, archives)
	}
}

// Settings handlers

func saveBreakHandler(service *application.SettingsApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			Name  string `json:"name" binding:"required"`
			Start int64  `json:"start" binding:"required,gt=0"`
			End   int64  `json:"end" binding:"required,gt=0"`
		}
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		b, err := service.SaveBreak(c.Request.Context(), application.SaveBreakCommand{
			Name:  req.Name,
			Start: req.Start,
			End:   req.End,
		})
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusCreated, b)
	}
}

func listBreaksHandler(service *application.SettingsApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		breaks, err := service.ListBreaks(c.Request.Context())
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, breaks)
	}
}

func deleteBreakHandler(service *application.SettingsApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		if err := service.DeleteBreak(c.Request.Context(), c.Param("id")); err != nil {
			respond(responder, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func listUsersHandler(service *application.SettingsApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		users, err := service.ListUsers(c.Request.Context())
		if err != nil {
			respond(responder, err)
			return
		}

		c.JSON(http.StatusOK, users)
	}
}
