package handler

import (
	"errors"
	"net/http"

	"motor_rental/internal/repository"
	"motor_rental/internal/service"
	"motor_rental/internal/upload"
	"motor_rental/internal/validator"
)

const (
	msgDatabaseDown = "Koneksi database gagal!"
	msgUnexpected   = "Terjadi kesalahan pada sistem. Silakan coba lagi."
	msgTooLarge     = "Ukuran file melebihi batas maksimum!"
	msgCSRFFailed   = "Permintaan ditolak: token CSRF tidak valid. Muat ulang halaman lalu coba lagi."
)

type errorMessage struct {
	err    error
	status int
	msg    string
}

// Checked in order: the upload causes come before the ErrImageRejected
// wrapper and the specific forbidden causes before ErrForbidden.
var errorMessages = []errorMessage{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Username atau password salah!"},
	{service.ErrRateLimited, http.StatusTooManyRequests, "Terlalu banyak percobaan login gagal. Silakan coba lagi dalam beberapa menit."},
	{service.ErrInvalidUsername, http.StatusBadRequest, "Username hanya boleh berisi huruf, angka, dan underscore, maksimal 50 karakter!"},
	{service.ErrPasswordRequired, http.StatusBadRequest, "Semua field password harus diisi!"},
	{service.ErrPasswordMismatch, http.StatusBadRequest, "Password baru dan konfirmasi password tidak cocok!"},
	{service.ErrInvalidPassword, http.StatusBadRequest, "Password baru harus 6 sampai 100 karakter!"},
	{service.ErrWrongCurrentPassword, http.StatusBadRequest, "Password lama tidak benar!"},
	{service.ErrRoleNotAllowed, http.StatusBadRequest, "Superadmin hanya bisa menambah admin!"},
	{service.ErrDuplicateUsername, http.StatusConflict, "Username sudah ada!"},
	{service.ErrUserNotFound, http.StatusNotFound, "User tidak ditemukan!"},
	{service.ErrAdminNotFound, http.StatusNotFound, "Admin tidak ditemukan!"},
	{service.ErrHasVehicles, http.StatusConflict, "Admin tidak dapat dihapus karena masih memiliki motor!"},
	{service.ErrCannotDeleteSelf, http.StatusForbidden, "Anda tidak dapat menghapus akun Anda sendiri!"},
	{service.ErrSuperadminProtected, http.StatusForbidden, "Akun superadmin tidak dapat dihapus!"},
	{service.ErrForbidden, http.StatusForbidden, "Akses ditolak!"},
	{service.ErrMotorNotFound, http.StatusNotFound, "Motor tidak ditemukan atau bukan milik Anda!"},
	{service.ErrDuplicatePlate, http.StatusConflict, "Plat nomor sudah ada!"},

	{upload.ErrExtensionNotAllowed, http.StatusBadRequest, "Format file tidak diizinkan! Gunakan PNG, JPG, JPEG, GIF, atau WEBP."},
	{upload.ErrFileTooLarge, http.StatusRequestEntityTooLarge, msgTooLarge},
	{upload.ErrNotAnImage, http.StatusBadRequest, "File yang diupload bukan gambar yang valid!"},
	{upload.ErrImageTooLarge, http.StatusBadRequest, "Resolusi gambar terlalu besar!"},
	{upload.ErrInvalidFilename, http.StatusBadRequest, "Nama file tidak valid!"},
	{upload.ErrNoFilename, http.StatusBadRequest, "Nama file tidak valid!"},
	{service.ErrImageRejected, http.StatusBadRequest, "Gagal mengupload gambar! Pastikan format file benar dan ukuran tidak lebih dari 5MB."},

	{repository.ErrConnection, http.StatusServiceUnavailable, msgDatabaseDown},
}

var motorFieldMessages = map[string]string{
	"Name":        "Nama motor wajib diisi, maksimal 100 karakter!",
	"Plate":       "Plat nomor wajib diisi, maksimal 20 karakter!",
	"Status":      "Status motor tidak valid!",
	"Description": "Deskripsi maksimal 1000 karakter!",
}

// describeError maps err to a status code and a message safe to show.
// Unknown errors get a generic message; their text never reaches the page.
func describeError(err error) (int, string) {
	if errors.Is(err, service.ErrInvalidMotor) {
		if msg, ok := motorFieldMessages[validator.InvalidField(err)]; ok {
			return http.StatusBadRequest, msg
		}
		return http.StatusBadRequest, "Data motor tidak valid!"
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge, msgTooLarge
	}

	for _, m := range errorMessages {
		if errors.Is(err, m.err) {
			return m.status, m.msg
		}
	}
	return http.StatusInternalServerError, msgUnexpected
}
