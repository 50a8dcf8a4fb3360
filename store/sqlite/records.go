package sqlite

import (
	"context"
	"database/sql"

	"github.com/warp/paperwork/books"
)

// =============================================================================
// REVENUE STORE
// =============================================================================

// AddRevenue inserts a revenue.
func (s *Store) AddRevenue(ctx context.Context, rev books.Revenue) (books.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO revenues
		(source, revenue_type, revenue_amount, receipt_date, revenue_description, revenue_path)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var id books.ID
	err := s.withConn(ctx, "add revenue", func(q querier) (err error) {
		id, err = insertRow(ctx, q, query,
			rev.Source, rev.Type, rev.Amount, rev.ReceiptDate,
			nullString(rev.Description), nullString(rev.Path),
		)
		return err
	})
	return id, err
}

// ListRevenues returns all revenues in id order.
func (s *Store) ListRevenues(ctx context.Context) ([]books.Revenue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var revenues []books.Revenue
	err := s.withConn(ctx, "list revenues", func(q querier) error {
		rows, err := q.QueryContext(ctx, `
			SELECT id, source, revenue_type, revenue_amount, receipt_date, revenue_description, revenue_path
			FROM revenues
			ORDER BY id
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var r books.Revenue
			var description, path sql.NullString
			if err := rows.Scan(&r.ID, &r.Source, &r.Type, &r.Amount, &r.ReceiptDate, &description, &path); err != nil {
				return err
			}
			r.Description = description.String
			r.Path = path.String
			revenues = append(revenues, r)
		}
		return rows.Err()
	})
	return revenues, err
}

// DeleteRevenue removes a revenue.
func (s *Store) DeleteRevenue(ctx context.Context, id books.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withConn(ctx, "delete revenue", func(q querier) error {
		return deleteRow(ctx, q, "revenues", id)
	})
}

// =============================================================================
// ADMIN DOCUMENT STORE
// =============================================================================

// AddAdminDocument inserts an administrative document reference.
func (s *Store) AddAdminDocument(ctx context.Context, doc books.AdminDocument) (books.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO admin_documents
		(admin_doc_concern, admin_doc_category, admin_doc_description, admin_doc_status, admin_doc_path)
		VALUES (?, ?, ?, ?, ?)
	`

	var id books.ID
	err := s.withConn(ctx, "add admin document", func(q querier) (err error) {
		id, err = insertRow(ctx, q, query, doc.Concern, doc.Category, doc.Description, doc.Status, doc.Path)
		return err
	})
	return id, err
}

// ListAdminDocuments returns all documents in id order.
func (s *Store) ListAdminDocuments(ctx context.Context) ([]books.AdminDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []books.AdminDocument
	err := s.withConn(ctx, "list admin documents", func(q querier) error {
		rows, err := q.QueryContext(ctx, `
			SELECT id, admin_doc_concern, admin_doc_category, admin_doc_description, admin_doc_status, admin_doc_path
			FROM admin_documents
			ORDER BY id
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var d books.AdminDocument
			if err := rows.Scan(&d.ID, &d.Concern, &d.Category, &d.Description, &d.Status, &d.Path); err != nil {
				return err
			}
			docs = append(docs, d)
		}
		return rows.Err()
	})
	return docs, err
}

// DeleteAdminDocument removes a document reference. The file itself is
// never touched.
func (s *Store) DeleteAdminDocument(ctx context.Context, id books.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withConn(ctx, "delete admin document", func(q querier) error {
		return deleteRow(ctx, q, "admin_documents", id)
	})
}

// =============================================================================
// TASK STORE
// =============================================================================

// AddTask inserts a task stamped with the current time.
func (s *Store) AddTask(ctx context.Context, task books.Task) (books.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO tasks
		(title, description, status, priority, due_date, creation_date, category, attachments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var id books.ID
	err := s.withConn(ctx, "add task", func(q querier) (err error) {
		id, err = insertRow(ctx, q, query,
			task.Title,
			nullString(task.Description),
			task.Status,
			task.Priority,
			nullString(task.DueDate),
			s.now(),
			nullString(task.Category),
			nullString(task.Attachments),
		)
		return err
	})
	return id, err
}

// ListTasks returns all tasks in id order.
func (s *Store) ListTasks(ctx context.Context) ([]books.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []books.Task
	err := s.withConn(ctx, "list tasks", func(q querier) error {
		rows, err := q.QueryContext(ctx, `
			SELECT id, title, description, status, priority, due_date, creation_date, category, attachments
			FROM tasks
			ORDER BY id
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var t books.Task
			var description, dueDate, category, attachments sql.NullString
			if err := rows.Scan(
				&t.ID, &t.Title, &description, &t.Status, &t.Priority,
				&dueDate, &t.CreationDate, &category, &attachments,
			); err != nil {
				return err
			}
			t.Description = description.String
			t.DueDate = dueDate.String
			t.Category = category.String
			t.Attachments = attachments.String
			tasks = append(tasks, t)
		}
		return rows.Err()
	})
	return tasks, err
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(ctx context.Context, id books.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withConn(ctx, "delete task", func(q querier) error {
		return deleteRow(ctx, q, "tasks", id)
	})
}

// UpdateTask overwrites all fields of task.ID. creation_date is reset to now
// along with the rest.
func (s *Store) UpdateTask(ctx context.Context, task books.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE tasks SET
			title = ?, description = ?, status = ?, priority = ?,
			due_date = ?, creation_date = ?, category = ?, attachments = ?
		WHERE id = ?
	`

	return s.withConn(ctx, "update task", func(q querier) error {
		_, err := q.ExecContext(ctx, query,
			task.Title,
			nullString(task.Description),
			task.Status,
			task.Priority,
			nullString(task.DueDate),
			s.now(),
			nullString(task.Category),
			nullString(task.Attachments),
			task.ID,
		)
		return err
	})
}

func (s *Store) now() string {
	return s.clock.Now().Format(books.TimestampLayout)
}
