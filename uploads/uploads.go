package uploads

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"tokri/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	_ "golang.org/x/image/webp"
)

const (
	UploadDir = "uploads"
	thumbDir  = "uploads/thumb"

	maxUploadSize = 10 << 20
)

// processImage decodes, saves the original as jpg and writes a 300px-wide
// thumbnail next to it.
func processImage(file *multipart.FileHeader) (string, string, error) {
	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode image: %w", err)
	}

	uniqueID := uuid.NewString()
	fileName := uniqueID + ".jpg"

	if err := utils.EnsureDir(UploadDir); err != nil {
		return "", "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := utils.EnsureDir(thumbDir); err != nil {
		return "", "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	if err := imaging.Save(img, filepath.Join(UploadDir, fileName)); err != nil {
		return "", "", fmt.Errorf("failed to save image: %w", err)
	}

	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, filepath.Join(thumbDir, fileName)); err != nil {
		return "", "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return "/uploads/" + fileName, "/uploads/thumb/" + fileName, nil
}

// UploadImages accepts one or more images under the "images" form key and
// returns the stored paths.
func UploadImages(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No images supplied")
		return
	}

	type saved struct {
		URL   string `json:"url"`
		Thumb string `json:"thumb"`
	}

	results := make([]saved, 0, len(files))
	for _, file := range files {
		if !utils.ValidateImageFileType(w, file) {
			return
		}
		url, thumb, err := processImage(file)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		results = append(results, saved{URL: url, Thumb: thumb})
	}

	utils.SendResponse(w, http.StatusCreated, results, "Images uploaded", nil)
}
