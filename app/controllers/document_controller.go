package controllers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/app/repository"
	"github.com/immofund/ImmoFund/internal/pkg/database"
	"github.com/immofund/ImmoFund/internal/pkg/docvault"
	"github.com/immofund/ImmoFund/internal/pkg/env"
	"github.com/immofund/ImmoFund/internal/pkg/jobqueue"
	"github.com/immofund/ImmoFund/internal/pkg/metrics/counter"
	"github.com/immofund/ImmoFund/internal/pkg/security"
	"github.com/immofund/ImmoFund/internal/pkg/upload"
	"github.com/immofund/ImmoFund/internal/pkg/usercontext"
)

const downloadTokenTTL = 15 * time.Minute

// HandleProjectDocuments lists the documents of a listing for its owner and
// accepts new uploads. Files are staged locally and archived to the vault by
// a background job.
func HandleProjectDocuments(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	uuid := c.Params("uuid")

	project, err := models.FindProjectByUUID(database.GetDB(), uuid)
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Project not found",
		}
		return flash.WithError(c, fm).Redirect("/user/projects")
	}

	if project.UserID != userCtx.UserID && !userCtx.IsAdmin {
		fm := fiber.Map{
			"type":    "error",
			"message": "You are not allowed to manage documents of this project",
		}
		return flash.WithError(c, fm).Redirect("/user/projects")
	}

	if c.Method() == fiber.MethodPost {
		return handleDocumentUpload(c, project, userCtx.UserID)
	}

	docs, err := repository.GetGlobalFactory().GetDocumentRepository().GetByProjectID(project.ID)
	if err != nil {
		log.Errorf("[Documents] Loading documents for project %d failed: %v", project.ID, err)
		docs = []models.Document{}
	}

	rows := make([]fiber.Map, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		rows = append(rows, fiber.Map{
			"UUID":          doc.UUID,
			"Title":         doc.Title,
			"Type":          doc.Type,
			"FileName":      doc.FileName,
			"FileSize":      FormatFileSize(doc.FileSize),
			"IsPublic":      doc.IsPublic,
			"Archived":      doc.StorageKey != "",
			"DownloadCount": doc.DownloadCount,
			"CreatedAt":     doc.CreatedAt.Format("02.01.2006"),
		})
	}

	return renderPage(c, "document/list", "Project documents", fiber.Map{
		"ProjectTitle": project.Title,
		"ProjectUUID":  project.UUID,
		"Documents":    rows,
		"CSRFToken":    c.Locals("csrf"),
	})
}

func handleDocumentUpload(c *fiber.Ctx, project *models.Project, userID uint) error {
	redirectTo := "/user/projects/" + project.UUID + "/documents"

	fh, err := c.FormFile("document")
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Please select a file to upload",
		}
		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	src, err := fh.Open()
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "The file could not be read",
		}
		return flash.WithError(c, fm).Redirect(redirectTo)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		fm := fiber.Map{
			"type":    "error",
			"message": "The file could not be read",
		}
		return flash.WithError(c, fm).Redirect(redirectTo)
	}
	head = head[:n]

	if _, err := upload.ValidateDocument(fh.Filename, head); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": fmt.Sprintf("Invalid document: %s", err),
		}
		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	// Stage the file locally, the archive job moves it into the vault
	tmp, err := os.CreateTemp("", "docvault-*"+filepath.Ext(fh.Filename))
	if err != nil {
		log.Errorf("[Documents] Creating staging file failed: %v", err)
		fm := fiber.Map{
			"type":    "error",
			"message": "The upload could not be processed. Please try again.",
		}
		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	written, err := io.Copy(tmp, io.MultiReader(bytes.NewReader(head), src))
	tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		log.Errorf("[Documents] Staging upload failed: %v", err)
		fm := fiber.Map{
			"type":    "error",
			"message": "The upload could not be processed. Please try again.",
		}
		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	title := c.FormValue("title")
	if title == "" {
		title = fh.Filename
	}
	docType := c.FormValue("type")
	switch docType {
	case models.DocumentTypeProspectus, models.DocumentTypeContract, models.DocumentTypeValuation:
	default:
		docType = models.DocumentTypeOther
	}

	doc := &models.Document{
		ProjectID: project.ID,
		UserID:    userID,
		Type:      docType,
		Title:     title,
		FileName:  fh.Filename,
		FileSize:  written,
		IsPublic:  c.FormValue("is_public") == "on",
	}

	if err := repository.GetGlobalFactory().GetDocumentRepository().Create(doc); err != nil {
		os.Remove(tmp.Name())
		log.Errorf("[Documents] Creating document record failed: %v", err)
		fm := fiber.Map{
			"type":    "error",
			"message": "The upload could not be saved. Please try again.",
		}
		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	if _, err := jobqueue.GetManager().GetQueue().EnqueueDocumentArchive(doc, project.UUID, tmp.Name()); err != nil {
		log.Errorf("[Documents] Enqueueing archive job for document %d failed: %v", doc.ID, err)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "The document has been uploaded and is being archived.",
	}
	return flash.WithSuccess(c, fm).Redirect(redirectTo)
}

// HandleDocumentLink issues a time-limited signed download link.
func HandleDocumentLink(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	uuid := c.Params("uuid")

	doc, err := models.FindDocumentByUUID(database.GetDB(), uuid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "document not found"})
	}

	if !canAccessDocument(doc, userCtx) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
	}

	secret := env.GetEnv("DOWNLOAD_TOKEN_SECRET", "")
	token, err := security.GenerateDownloadToken(userCtx.UserID, doc.UUID, downloadTokenTTL, secret)
	if err != nil {
		log.Errorf("[Documents] Generating download token for %s failed: %v", doc.UUID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "token generation failed"})
	}

	domain := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080")
	return c.JSON(fiber.Map{
		"url":        fmt.Sprintf("%s/documents/download?token=%s", domain, token),
		"expires_in": int(downloadTokenTTL.Seconds()),
	})
}

// HandleDocumentDownload serves a vault document addressed by a signed token.
func HandleDocumentDownload(c *fiber.Ctx) error {
	secret := env.GetEnv("DOWNLOAD_TOKEN_SECRET", "")
	claims, err := security.VerifyDownloadToken(c.Query("token"), secret)
	if err != nil {
		return c.Status(fiber.StatusForbidden).SendString("Invalid or expired download link")
	}

	doc, err := models.FindDocumentByUUID(database.GetDB(), claims.DocumentID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Document not found")
	}

	if doc.StorageKey == "" {
		return c.Status(fiber.StatusConflict).SendString("Document is still being archived, try again shortly")
	}

	vault, err := docvault.GetVault()
	if err != nil {
		log.Errorf("[Documents] Vault unavailable: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).SendString("Document storage is unavailable")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	var buf bytes.Buffer
	if _, err := vault.Retrieve(ctx, doc.StorageKey, &buf); err != nil {
		log.Errorf("[Documents] Retrieving %s from vault failed: %v", doc.StorageKey, err)
		return c.Status(fiber.StatusInternalServerError).SendString("The document could not be retrieved")
	}

	if err := counter.AddDocumentDownload(doc.ID); err != nil {
		log.Warnf("[Documents] Download counter for document %d failed: %v", doc.ID, err)
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Set(fiber.HeaderContentType, "application/octet-stream")
	return c.Send(buf.Bytes())
}

// HandleDocumentDelete removes a document record and schedules the vault
// object deletion.
func HandleDocumentDelete(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	uuid := c.Params("uuid")

	doc, err := models.FindDocumentByUUID(database.GetDB(), uuid)
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Document not found",
		}
		return flash.WithError(c, fm).Redirect("/user/projects")
	}

	project, err := repository.GetGlobalFactory().GetProjectRepository().GetByID(doc.ProjectID)
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Project not found",
		}
		return flash.WithError(c, fm).Redirect("/user/projects")
	}
	redirectTo := "/user/projects/" + project.UUID + "/documents"

	if doc.UserID != userCtx.UserID && project.UserID != userCtx.UserID && !userCtx.IsAdmin {
		fm := fiber.Map{
			"type":    "error",
			"message": "You are not allowed to delete this document",
		}
		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	if _, err := jobqueue.GetManager().GetQueue().EnqueueDocumentDelete(doc); err != nil {
		log.Errorf("[Documents] Enqueueing delete job for document %d failed: %v", doc.ID, err)
	}

	if err := repository.GetGlobalFactory().GetDocumentRepository().Delete(doc.ID); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": fmt.Sprintf("something went wrong: %s", err),
		}
		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "The document has been deleted.",
	}
	return flash.WithSuccess(c, fm).Redirect(redirectTo)
}

// canAccessDocument gates link generation: public documents are open to any
// signed-in user, private ones to uploader, project owner and admins.
func canAccessDocument(doc *models.Document, userCtx usercontext.UserContext) bool {
	if userCtx.IsAdmin {
		return true
	}
	if doc.IsPublic {
		return userCtx.IsLoggedIn
	}
	if doc.UserID == userCtx.UserID {
		return true
	}
	project, err := repository.GetGlobalFactory().GetProjectRepository().GetByID(doc.ProjectID)
	if err != nil {
		return false
	}
	return project.UserID == userCtx.UserID
}
