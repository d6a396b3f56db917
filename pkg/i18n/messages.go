package i18n

var idMessages = map[string]string{
	"app_title":                    "💰 Tracker Pengeluaran",
	"dashboard":                    "📊 Dashboard",
	"transactions":                 "💳 Transaksi",
	"categories":                   "📂 Kategori",
	"total_balance":                "Total Saldo",
	"monthly_income":               "Pemasukan Bulan Ini",
	"monthly_expense":              "Pengeluaran Bulan Ini",
	"recent_transactions":          "Transaksi Terakhir",
	"monthly_income_vs_expense":    "Pemasukan vs Pengeluaran Bulanan",
	"no_recent_transactions":       "Tidak Ada Transaksi Terakhir. Tambah Transaksi Pertamamu!",
	"loading":                      "Memuat...",
	"add_transaction":              "+ Tambah Transaksi",
	"edit_transaction":             "Edit Transaksi",
	"export_csv":                   "📊 Export CSV",
	"import_csv":                   "📥 Import CSV",
	"transaction_type":             "Tipe",
	"category":                     "Kategori",
	"amount":                       "Jumlah",
	"date":                         "Tanggal",
	"description":                  "Deskripsi (Opsional)",
	"income":                       "Pemasukan",
	"expense":                      "Pengeluaran",
	"cancel":                       "Batal",
	"save_transaction":             "Simpan Transaksi",
	"no_transactions":              "Belum ada transaksi. Tambah transaksi pertamamu!",
	"no_description":               "Tidak ada deskripsi",
	"delete_confirmation":          "Hapus transaksi ini?",
	"delete_category_confirmation": "Hapus kategori \"%s\"? Semua transaksi dengan kategori ini akan terhapus juga!",
	"no_categories":                "Belum Ada Kategori, Silahkan Tambah Dulu!",
	"failed_to_save":               "Gagal menyimpan transaksi",
	"failed_to_update":             "Gagal mengupdate transaksi",
	"failed_to_delete":             "Gagal menghapus transaksi",
	KeyFailedToLoad:                "Gagal memuat data",
	KeyNoDataToExport:              "Tidak ada data untuk diexport",

	KeyCategoryCreated:    "Kategori berhasil ditambahkan",
	KeyCategoryUpdated:    "Kategori berhasil diubah",
	KeyCategoryDeleted:    "Kategori berhasil dihapus",
	KeyTransactionCreated: "Transaksi berhasil ditambahkan",
	KeyTransactionUpdated: "Transaksi berhasil diubah",
	KeyTransactionDeleted: "Transaksi berhasil dihapus",
	KeyValidationFailed:   "Data yang diberikan tidak valid",
	KeyNotFound:           "Data tidak ditemukan",
	KeyImportCompleted:    "Import selesai: %d transaksi berhasil diimport, %d baris gagal",
	KeyImportNoDataRows:   "File CSV harus memiliki header dan minimal satu baris data",
	KeyImportMissingCols:  "Kolom wajib tidak ditemukan: %s. Header harus memuat tanggal, kategori dan jumlah",
}

var enMessages = map[string]string{
	"app_title":                    "💰 Expense Tracker",
	"dashboard":                    "📊 Dashboard",
	"transactions":                 "💳 Transactions",
	"categories":                   "📂 Categories",
	"total_balance":                "Total Balance",
	"monthly_income":               "This Month's Income",
	"monthly_expense":              "This Month's Expense",
	"recent_transactions":          "Recent Transactions",
	"monthly_income_vs_expense":    "Monthly Income vs Expense",
	"no_recent_transactions":       "No Recent Transactions. Add Your First Transaction!",
	"loading":                      "Loading...",
	"add_transaction":              "+ Add Transaction",
	"edit_transaction":             "Edit Transaction",
	"export_csv":                   "📊 Export CSV",
	"import_csv":                   "📥 Import CSV",
	"transaction_type":             "Type",
	"category":                     "Category",
	"amount":                       "Amount",
	"date":                         "Date",
	"description":                  "Description (Optional)",
	"income":                       "Income",
	"expense":                      "Expense",
	"cancel":                       "Cancel",
	"save_transaction":             "Save Transaction",
	"no_transactions":              "No transactions yet. Add your first transaction!",
	"no_description":               "No description",
	"delete_confirmation":          "Delete this transaction?",
	"delete_category_confirmation": "Delete category \"%s\"? All transactions with this category will also be deleted!",
	"no_categories":                "No Categories Yet, Please Add Some First!",
	"failed_to_save":               "Failed to save transaction",
	"failed_to_update":             "Failed to update transaction",
	"failed_to_delete":             "Failed to delete transaction",
	KeyFailedToLoad:                "Failed to load data",
	KeyNoDataToExport:              "No data to export",

	KeyCategoryCreated:    "Category created successfully",
	KeyCategoryUpdated:    "Category updated successfully",
	KeyCategoryDeleted:    "Category deleted successfully",
	KeyTransactionCreated: "Transaction created successfully",
	KeyTransactionUpdated: "Transaction updated successfully",
	KeyTransactionDeleted: "Transaction deleted successfully",
	KeyValidationFailed:   "The given data was invalid",
	KeyNotFound:           "Resource not found",
	KeyImportCompleted:    "Import finished: %d transactions imported, %d rows failed",
	KeyImportNoDataRows:   "The CSV file must contain a header and at least one data row",
	KeyImportMissingCols:  "Required columns not found: %s. The header must contain date, category and amount",
}
